package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	lerrors "github.com/abhisek/lina/internal/errors"
	"github.com/abhisek/lina/internal/spacedrep"
	"github.com/abhisek/lina/internal/store"
)

// ReviewRequest is the body of POST /api/v1/reviews.
type ReviewRequest struct {
	SkillID string `json:"skill_id"`
	OK      *bool  `json:"ok"`
}

// GradeRequest is the body of POST /api/v1/items/:id/grade.
type GradeRequest struct {
	SkillID string `json:"skill_id"`
	Grade   *int   `json:"grade"`
}

// FlowRequest is the body of POST /api/v1/flow.
type FlowRequest struct {
	Fluency   *float64 `json:"fluency"`
	Challenge *float64 `json:"challenge"`
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", lerrors.ErrInvalidInput, fmt.Sprintf(format, args...))
}

// listSkills handles GET /api/v1/skills.
func (s *Server) listSkills(c *fiber.Ctx) error {
	rows, err := s.svc.Matrix(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"skills": rows})
}

// buckets handles GET /api/v1/skills/buckets.
func (s *Server) buckets(c *fiber.Ctx) error {
	b, err := s.svc.Buckets(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"buckets": b, "total": b.Total()})
}

// listReminders handles GET /api/v1/reminders.
func (s *Server) listReminders(c *fiber.Ctx) error {
	rs, err := s.svc.Reminders(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reminders": rs})
}

// listEvents handles GET /api/v1/events.
func (s *Server) listEvents(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 0 {
		return invalid("limit must not be negative")
	}
	events, err := s.svc.Events(c.UserContext(), store.QueryOpts{
		SkillID: c.Query("skill"),
		Limit:   limit,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"events": events})
}

// finishReview handles POST /api/v1/reviews.
func (s *Server) finishReview(c *fiber.Ctx) error {
	var req ReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid("invalid request body: %v", err)
	}
	if req.SkillID == "" {
		return invalid("skill_id is required")
	}
	if req.OK == nil {
		return invalid("ok is required")
	}

	res, err := s.svc.ReviewFinished(c.UserContext(), req.SkillID, *req.OK)
	if err != nil {
		return err
	}
	return c.JSON(res)
}

// gradeItem handles POST /api/v1/items/:id/grade.
func (s *Server) gradeItem(c *fiber.Ctx) error {
	var req GradeRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid("invalid request body: %v", err)
	}
	if req.Grade == nil {
		return invalid("grade is required")
	}

	// Params aliases the request buffer, which fasthttp reuses.
	itemID := utils.CopyString(c.Params("id"))
	sched, err := s.svc.GradeItem(c.UserContext(), itemID, req.SkillID, spacedrep.Grade(*req.Grade))
	if err != nil {
		return err
	}
	return c.JSON(sched)
}

// dueItems handles GET /api/v1/items/due.
func (s *Server) dueItems(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 0)
	if limit < 0 {
		return invalid("limit must not be negative")
	}
	items, err := s.svc.DueItems(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

// getItem handles GET /api/v1/items/:id.
func (s *Server) getItem(c *fiber.Ctx) error {
	view, err := s.svc.Item(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(view)
}

// logFlow handles POST /api/v1/flow.
func (s *Server) logFlow(c *fiber.Ctx) error {
	var req FlowRequest
	if err := c.BodyParser(&req); err != nil {
		return invalid("invalid request body: %v", err)
	}
	if req.Fluency == nil || req.Challenge == nil {
		return invalid("fluency and challenge are required")
	}
	entry, err := s.svc.LogFlow(c.UserContext(), *req.Fluency, *req.Challenge)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(entry)
}

// listFlow handles GET /api/v1/flow.
func (s *Server) listFlow(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 0 {
		return invalid("limit must not be negative")
	}
	entries, err := s.svc.Flow(c.UserContext(), store.QueryOpts{Limit: limit})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"flow": entries})
}
