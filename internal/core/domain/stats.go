package domain

import "sort"

type WeeklyStats struct {
	WeekStart string `json:"week_start"`
	WeekEnd   string `json:"week_end"`
	TotalDays int    `json:"total_days"`

	Medications MedicationWeekly `json:"medications"`
	Water       WaterWeekly      `json:"water"`
	Steps       StepsWeekly      `json:"steps"`
	Mood        ScaleWeekly      `json:"mood"`
	Energy      ScaleWeekly      `json:"energy"`
}

type MedicationWeekly struct {
	TotalTaken     int     `json:"total_taken"`
	TotalMissed    int     `json:"total_missed"`
	AverageStreak  float64 `json:"average_streak"`
	CompletionRate float64 `json:"completion_rate"`
}

type WaterWeekly struct {
	TotalOz           float64 `json:"total_oz"`
	AverageOz         float64 `json:"average_oz"`
	AveragePercentage float64 `json:"average_percentage"`
	AverageStreak     float64 `json:"average_streak"`
}

type StepsWeekly struct {
	TotalSteps        int     `json:"total_steps"`
	AverageSteps      float64 `json:"average_steps"`
	AveragePercentage float64 `json:"average_percentage"`
	AverageStreak     float64 `json:"average_streak"`
}

type ScaleWeekly struct {
	Average     float64 `json:"average"`
	DaysTracked int     `json:"days_tracked"`
}

// CalculateWeeklyStats reduces a set of daily records into one weekly
// summary. It is a total function: any input, including an empty or unsorted
// list, yields a well-formed result, and the input slice is never mutated.
//
// Averages divide by the number of records supplied, not by seven, so a week
// with three tracked days averages over three. WeekStart and WeekEnd are the
// min and max dates actually present, which can be narrower than the queried
// calendar week; callers that care about the query window must carry it
// separately.
func CalculateWeeklyStats(activities []*DailyActivity) WeeklyStats {
	if len(activities) == 0 {
		return WeeklyStats{}
	}

	sorted := make([]*DailyActivity, len(activities))
	copy(sorted, activities)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date < sorted[j].Date
	})

	days := float64(len(sorted))

	stats := WeeklyStats{
		WeekStart: sorted[0].Date,
		WeekEnd:   sorted[len(sorted)-1].Date,
		TotalDays: len(sorted),
	}

	var medStreakSum, waterPctSum, waterStreakSum, stepsPctSum, stepsStreakSum float64
	var moodSum, energySum, moodDays, energyDays int

	for _, a := range sorted {
		stats.Medications.TotalTaken += a.Medications.Taken
		stats.Medications.TotalMissed += a.Medications.Missed
		medStreakSum += float64(a.Medications.Streak)

		stats.Water.TotalOz += a.Water.TotalOz
		waterPctSum += a.Water.Percentage
		waterStreakSum += float64(a.Water.Streak)

		stats.Steps.TotalSteps += a.Steps.Count
		stepsPctSum += a.Steps.Percentage
		stepsStreakSum += float64(a.Steps.Streak)

		if a.Mood != nil {
			moodSum += *a.Mood
			moodDays++
		}
		if a.Energy != nil {
			energySum += *a.Energy
			energyDays++
		}
	}

	stats.Medications.AverageStreak = medStreakSum / days
	if dosed := stats.Medications.TotalTaken + stats.Medications.TotalMissed; dosed > 0 {
		stats.Medications.CompletionRate = float64(stats.Medications.TotalTaken) / float64(dosed) * 100
	}

	stats.Water.AverageOz = stats.Water.TotalOz / days
	stats.Water.AveragePercentage = waterPctSum / days
	stats.Water.AverageStreak = waterStreakSum / days

	stats.Steps.AverageSteps = float64(stats.Steps.TotalSteps) / days
	stats.Steps.AveragePercentage = stepsPctSum / days
	stats.Steps.AverageStreak = stepsStreakSum / days

	stats.Mood.DaysTracked = moodDays
	if moodDays > 0 {
		stats.Mood.Average = float64(moodSum) / float64(moodDays)
	}
	stats.Energy.DaysTracked = energyDays
	if energyDays > 0 {
		stats.Energy.Average = float64(energySum) / float64(energyDays)
	}

	return stats
}
