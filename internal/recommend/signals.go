// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

package recommend

import (
	"fmt"
	"time"
)

// fixedHolidays maps MM-DD to a display name.
var fixedHolidays = map[string]string{
	"01-01": "New Year",
	"01-14": "Makar Sankranti",
	"01-26": "Republic Day",
	"08-15": "Independence Day",
	"10-02": "Gandhi Jayanti",
	"12-25": "Christmas",
	"02-14": "Valentine's Day",
}

const weekendOccasion = "Weekend"

// SignalsAt derives temporal signals from now, in now's location.
// The date string is the UTC calendar date.
func SignalsAt(now time.Time) TemporalSignals {
	hour := now.Hour()
	day := int(now.Weekday())
	date := now.Day()

	s := TemporalSignals{
		TimeBucket:   bucketFor(hour),
		HourLocal:    hour,
		DayOfWeek:    day,
		IsWeekend:    day == int(time.Sunday) || day == int(time.Saturday),
		DateString:   now.UTC().Format("2006-01-02"),
		IsMonthStart: date <= 3,
		IsMonthEnd:   date >= 25,
		OccasionType: OccasionNone,
	}

	mmdd := fmt.Sprintf("%02d-%02d", int(now.Month()), date)
	if name, ok := fixedHolidays[mmdd]; ok {
		s.Occasion = &name
		s.OccasionType = OccasionHoliday
	} else if s.IsWeekend {
		occasion := weekendOccasion
		s.Occasion = &occasion
		s.OccasionType = OccasionWeekend
	}

	return s
}

func bucketFor(hour int) TimeBucket {
	switch {
	case hour >= 5 && hour < 11:
		return TimeMorning
	case hour >= 11 && hour < 16:
		return TimeAfternoon
	case hour >= 16 && hour < 22:
		return TimeEvening
	default:
		return TimeLateNight
	}
}
