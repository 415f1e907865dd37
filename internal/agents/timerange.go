package agents

import (
	"time"

	"github.com/soyeahso/tubecrew/internal/domain"
)

// TimeRange is a named look-back window for topic research.
type TimeRange string

const (
	Months3 TimeRange = "MONTHS_3"
	Year1   TimeRange = "YEAR_1"
	Years2  TimeRange = "YEARS_2"
)

// ParseTimeRange accepts the window names; empty means Months3.
func ParseTimeRange(s string) (TimeRange, error) {
	switch TimeRange(s) {
	case "":
		return Months3, nil
	case Months3, Year1, Years2:
		return TimeRange(s), nil
	}
	return "", domain.Invalid("time_range", "must be one of MONTHS_3, YEAR_1, YEARS_2, got %q", s)
}

// Months returns the window length in months.
func (r TimeRange) Months() int {
	switch r {
	case Year1:
		return 12
	case Years2:
		return 24
	default:
		return 3
	}
}

// Label is the window as shown in prompts.
func (r TimeRange) Label() string {
	switch r {
	case Year1:
		return "近1年"
	case Years2:
		return "近2年"
	default:
		return "近3个月"
	}
}

// dateRange returns the window ending at now, counting a month as 30 days.
func dateRange(now time.Time, months int) (start, end string) {
	from := now.AddDate(0, 0, -30*months)
	return from.Format("2006-01-02"), now.Format("2006-01-02")
}
