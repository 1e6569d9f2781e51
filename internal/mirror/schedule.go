package mirror

import (
	"fmt"
	"time"
)

const minutesPerDay = 24 * 60

// Schedule is a sync interval expressed in minutes, convertible to a
// cron-style expression for display. Minimum granularity is one minute.
type Schedule struct {
	minutes int
}

func NewSchedule(minutes int) (Schedule, error) {
	if minutes < 1 {
		return Schedule{}, fmt.Errorf("schedule: interval must be at least 1 minute, got %d", minutes)
	}
	return Schedule{minutes: minutes}, nil
}

func (s Schedule) Minutes() int {
	return s.minutes
}

func (s Schedule) Interval() time.Duration {
	return time.Duration(s.minutes) * time.Minute
}

// Expression renders the interval as a five-field cron expression:
// sub-hourly intervals run every N minutes, sub-daily intervals collapse
// to hourly at a minute offset, anything longer runs daily or every N days
// at an hour+minute offset.
func (s Schedule) Expression() string {
	switch {
	case s.minutes < 60:
		return fmt.Sprintf("*/%d * * * *", s.minutes)
	case s.minutes < minutesPerDay:
		hours := s.minutes / 60
		offset := s.minutes % 60
		return fmt.Sprintf("%d */%d * * *", offset, hours)
	default:
		days := s.minutes / minutesPerDay
		rem := s.minutes % minutesPerDay
		hour := rem / 60
		minute := rem % 60
		if days == 1 {
			return fmt.Sprintf("%d %d * * *", minute, hour)
		}
		return fmt.Sprintf("%d %d */%d * *", minute, hour, days)
	}
}

func (s Schedule) String() string {
	return fmt.Sprintf("every %dm (%s)", s.minutes, s.Expression())
}
