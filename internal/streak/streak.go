// Package streak counts consecutive calendar days with at least one completed quiz.
package streak

import "time"

// Checkpoint is the persisted outcome of the last streak evaluation.
type Checkpoint struct {
	Streak        int `json:"streak"`
	LastCheckDate Day `json:"lastCheckDate"`
}

// Compute returns the current streak as of today for the given completion
// timestamps, normalized to calendar days in loc.
//
// The walk is anchored on today, or on yesterday when nothing was completed
// today yet. Any older gap resets the streak to zero, even when the days
// before the gap were consecutive.
func Compute(dates []time.Time, today Day, loc *time.Location) (int, Checkpoint) {
	days := make([]Day, 0, len(dates))
	for _, date := range dates {
		days = append(days, DayOf(date, loc))
	}
	return ComputeDays(days, today)
}

// ComputeDays is Compute over already-normalized days.
func ComputeDays(days []Day, today Day) (int, Checkpoint) {
	if len(days) == 0 {
		return 0, Checkpoint{Streak: 0, LastCheckDate: today}
	}

	seen := make(map[Day]struct{}, len(days))
	for _, day := range days {
		seen[day] = struct{}{}
	}

	var anchor Day
	switch {
	case has(seen, today):
		anchor = today
	case has(seen, today.AddDays(-1)):
		anchor = today.AddDays(-1)
	default:
		return 0, Checkpoint{Streak: 0, LastCheckDate: today}
	}

	streak := 1
	for day := anchor.AddDays(-1); has(seen, day); day = day.AddDays(-1) {
		streak++
	}

	return streak, Checkpoint{Streak: streak, LastCheckDate: today}
}

func has(set map[Day]struct{}, day Day) bool {
	_, ok := set[day]
	return ok
}
