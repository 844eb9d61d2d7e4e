package domain

// FillWeek densifies a sparse record list into exactly seven entries, one per
// day of the given week in Sunday..Saturday order. Days without a stored
// record get a zero-valued placeholder with the default goals. Records dated
// outside the week are ignored; the input is never modified and nothing is
// written back to storage.
func FillWeek(userID string, activities []*DailyActivity, week WeekRange) []*DailyActivity {
	byDate := make(map[string]*DailyActivity, len(activities))
	for _, a := range activities {
		byDate[a.Date] = a
	}

	full := make([]*DailyActivity, 0, 7)
	for _, date := range week.Dates() {
		if a, ok := byDate[date]; ok {
			full = append(full, a)
			continue
		}
		full = append(full, PlaceholderActivity(userID, date))
	}

	return full
}
