package practice

import (
	"github.com/abhisek/lina/internal/spacedrep"
	"github.com/abhisek/lina/internal/store"
)

func toData(s spacedrep.ItemSchedule) store.ItemScheduleData {
	d := store.ItemScheduleData{
		ItemID:       s.ItemID,
		SkillID:      s.SkillID,
		Easiness:     s.Easiness,
		IntervalDays: s.IntervalDays,
		Repetitions:  s.Repetitions,
		Due:          s.Due,
		LastReview:   s.LastReview,
	}
	if s.LastGrade != nil {
		g := int(*s.LastGrade)
		d.LastGrade = &g
	}
	return d
}

func fromData(d store.ItemScheduleData) spacedrep.ItemSchedule {
	s := spacedrep.ItemSchedule{
		ItemID:       d.ItemID,
		SkillID:      d.SkillID,
		Easiness:     d.Easiness,
		IntervalDays: d.IntervalDays,
		Repetitions:  d.Repetitions,
		Due:          d.Due,
		LastReview:   d.LastReview,
	}
	if d.LastGrade != nil {
		g := spacedrep.Grade(*d.LastGrade)
		s.LastGrade = &g
	}
	return s
}
