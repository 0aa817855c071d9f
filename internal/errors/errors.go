// Package errors defines the error kinds shared by the scheduling and mastery packages.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Use errors.Is to check.
var (
	// ErrInvalidInput marks malformed caller input: a grade outside [0,4], a
	// mastery level outside [1,5], a bad configuration value.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMissingSkill marks an operation that references a skill absent from
	// the catalog.
	ErrMissingSkill = errors.New("missing skill")

	// ErrMissingItem marks a lookup of an item that has never been graded.
	ErrMissingItem = errors.New("missing item")
)

// MissingSkillError reports the skill ID that could not be resolved.
type MissingSkillError struct {
	SkillID string
}

func (e *MissingSkillError) Error() string {
	return fmt.Sprintf("skill %q not found in catalog", e.SkillID)
}

func (e *MissingSkillError) Unwrap() error { return ErrMissingSkill }

// NewMissingSkill returns an error that matches ErrMissingSkill.
func NewMissingSkill(skillID string) error {
	return &MissingSkillError{SkillID: skillID}
}

// MissingItemError reports the item ID that has no schedule.
type MissingItemError struct {
	ItemID string
}

func (e *MissingItemError) Error() string {
	return fmt.Sprintf("item %q has no schedule", e.ItemID)
}

func (e *MissingItemError) Unwrap() error { return ErrMissingItem }

// NewMissingItem returns an error that matches ErrMissingItem.
func NewMissingItem(itemID string) error {
	return &MissingItemError{ItemID: itemID}
}

// IsInvalidInput reports whether err is, or wraps, ErrInvalidInput.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsMissingSkill reports whether err is, or wraps, ErrMissingSkill.
func IsMissingSkill(err error) bool {
	return errors.Is(err, ErrMissingSkill)
}

// IsMissingItem reports whether err is, or wraps, ErrMissingItem.
func IsMissingItem(err error) bool {
	return errors.Is(err, ErrMissingItem)
}
