package domain

import "time"

// WeekRange bounds a Sunday..Saturday calendar week as inclusive ISO dates.
type WeekRange struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// CurrentWeekRange returns the week containing ref: the most recent Sunday on
// or before ref through the following Saturday. Pure function of ref, so
// tests can pin any instant.
func CurrentWeekRange(ref time.Time) WeekRange {
	start := weekStart(ref)
	return WeekRange{
		StartDate: start.Format(DateLayout),
		EndDate:   start.AddDate(0, 0, 6).Format(DateLayout),
	}
}

// PreviousWeekRange returns the seven days immediately before the week
// containing ref, same Sunday..Saturday convention.
func PreviousWeekRange(ref time.Time) WeekRange {
	start := weekStart(ref).AddDate(0, 0, -7)
	return WeekRange{
		StartDate: start.Format(DateLayout),
		EndDate:   start.AddDate(0, 0, 6).Format(DateLayout),
	}
}

// Contains reports whether the ISO date falls inside the range. Lexicographic
// comparison is safe for YYYY-MM-DD strings.
func (r WeekRange) Contains(date string) bool {
	return r.StartDate <= date && date <= r.EndDate
}

// Dates expands the range into its seven dates in calendar order.
func (r WeekRange) Dates() []string {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return nil
	}

	dates := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		dates = append(dates, start.AddDate(0, 0, i).Format(DateLayout))
	}
	return dates
}

func weekStart(ref time.Time) time.Time {
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}
