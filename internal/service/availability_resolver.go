package service

import (
	"sort"
	"time"

	"github.com/noah-isme/wellness-booking-api/internal/models"
)

// ResolveMonth computes the live slots of every instructor for each day of the month.
// It is pure: the snapshot is only read and nothing is retained between calls.
//
// Per day and instructor: a blocked date suppresses everything; otherwise weekly rules for the
// weekday are taken, block exceptions remove rule slots sharing the same HH:MM start, and
// addition exceptions are appended unconditionally.
func ResolveMonth(year int, month time.Month, snapshot models.AvailabilitySnapshot) []models.ResolvedSlot {
	weeklyByDay := make(map[time.Weekday][]models.WeeklyRule, 7)
	for _, rule := range snapshot.Weekly {
		weeklyByDay[rule.Weekday] = append(weeklyByDay[rule.Weekday], rule)
	}
	exceptionsByDate := make(map[string][]models.AvailabilityException)
	for _, exc := range snapshot.Exceptions {
		exceptionsByDate[exc.Date] = append(exceptionsByDate[exc.Date], exc)
	}
	blockedByDate := make(map[string]map[string]struct{})
	for _, b := range snapshot.Blocked {
		if blockedByDate[b.Date] == nil {
			blockedByDate[b.Date] = make(map[string]struct{})
		}
		blockedByDate[b.Date][b.InstructorID] = struct{}{}
	}

	var slots []models.ResolvedSlot
	for day := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC); day.Month() == month; day = day.AddDate(0, 0, 1) {
		date := day.Format(models.DateLayout)
		slots = append(slots, resolveDay(date, weeklyByDay[day.Weekday()], exceptionsByDate[date], blockedByDate[date])...)
	}
	return slots
}

func resolveDay(date string, weekly []models.WeeklyRule, exceptions []models.AvailabilityException, blocked map[string]struct{}) []models.ResolvedSlot {
	// Instructors in first-seen order keep output deterministic.
	var instructors []string
	seen := make(map[string]struct{})
	track := func(id string) {
		if _, ok := seen[id]; !ok {
			seen[id] = struct{}{}
			instructors = append(instructors, id)
		}
	}
	for _, rule := range weekly {
		track(rule.InstructorID)
	}
	for _, exc := range exceptions {
		track(exc.InstructorID)
	}

	var out []models.ResolvedSlot
	for _, instructorID := range instructors {
		if _, dayOff := blocked[instructorID]; dayOff {
			continue
		}

		blockedStarts := make(map[string]struct{})
		var additions []models.AvailabilityException
		for _, exc := range exceptions {
			if exc.InstructorID != instructorID {
				continue
			}
			if exc.Kind == models.ExceptionBlock {
				blockedStarts[exc.Start.MinuteKey()] = struct{}{}
			} else {
				additions = append(additions, exc)
			}
		}

		for _, rule := range weekly {
			if rule.InstructorID != instructorID {
				continue
			}
			if _, removed := blockedStarts[rule.Start.MinuteKey()]; removed {
				continue
			}
			out = append(out, models.ResolvedSlot{
				Date:         date,
				Start:        rule.Start,
				End:          rule.End,
				TemplateID:   rule.TemplateID,
				InstructorID: instructorID,
				LocationID:   rule.LocationID,
				Source:       models.SlotSourceRule,
			})
		}

		for _, exc := range additions {
			excID := exc.ID
			out = append(out, models.ResolvedSlot{
				Date:         date,
				Start:        exc.Start,
				End:          exc.End,
				TemplateID:   exc.TemplateID,
				InstructorID: instructorID,
				Source:       models.SlotSourceException,
				ExceptionID:  &excID,
			})
		}
	}
	return out
}

// EmitSlots returns the month's slots as one sequence ordered by date, start and instructor.
// Nothing is filtered; ties keep resolver order.
func EmitSlots(slots []models.ResolvedSlot) []models.ResolvedSlot {
	ordered := make([]models.ResolvedSlot, len(slots))
	copy(ordered, slots)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if a.Date != b.Date {
			return a.Date < b.Date
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.InstructorID < b.InstructorID
	})
	return ordered
}
