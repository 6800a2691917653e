// Package quota computes meal plan usage metrics from plan configuration,
// the usage ledger, and an externally supplied clock. It never fails on
// missing ledger data and clamps invalid plan inputs instead of erroring.
package quota

import (
	"math"
	"time"

	"app/internal/model"
)

// TermDays is the fixed semester length used by the depletion model.
const TermDays = 112

// wasteScale projects unused-meal risk: one full week of unused weekly
// allotment saturates near 100.
const wasteScale = 8

// Plan is the slice of user configuration the engine needs.
type Plan struct {
	Distribution string
	TotalMeals   int
	WeeklyMeals  int
	ExpiresOn    time.Time
}

// PlanFromUser extracts the plan configuration from a user record.
func PlanFromUser(u *model.User) Plan {
	return Plan{
		Distribution: u.MealDistribution,
		TotalMeals:   u.TotalMeals,
		WeeklyMeals:  u.WeeklyMeals,
		ExpiresOn:    u.ExpiresOn,
	}
}

// Adjustment is one ledger entry. Negative deltas are consumed meals,
// positive deltas are credits.
type Adjustment struct {
	Delta int
	At    time.Time
}

// Stats is the metrics bundle returned to the dashboard.
type Stats struct {
	Remaining    int `json:"remaining"`
	UsedTotal    int `json:"used_total"`
	UsedThisWeek int `json:"used_this_week"`
	UsedLastWeek int `json:"used_last_week"`
	TrendPct     int `json:"trend_pct"`
	WastePct     int `json:"waste_pct"`
	DaysLeft     int `json:"days_left"`
}

// DefaultWeeklyMeals is the weekly allotment applied at signup when a
// weekly plan omits one: the semester total spread over 16 weeks.
func DefaultWeeklyMeals(totalMeals int) int {
	if totalMeals <= 0 {
		return 0
	}
	return int(math.Round(float64(totalMeals) / 16))
}

// Compute returns usage metrics for the plan as of today. Weekly plans
// count real consumption inside the current ISO week; semester plans use a
// straight-line depletion model adjusted by the full ledger, since no
// per-day consumption record exists for a single up-front allotment.
func Compute(plan Plan, ledger []Adjustment, today time.Time) Stats {
	if plan.TotalMeals < 0 {
		plan.TotalMeals = 0
	}
	if plan.WeeklyMeals < 0 {
		plan.WeeklyMeals = 0
	}
	daysLeft := maxInt(0, daysBetween(today, plan.ExpiresOn))

	if plan.Distribution == model.DistributionWeekly {
		return computeWeekly(plan, ledger, today, daysLeft)
	}
	return computeSemester(plan, ledger, daysLeft)
}

func computeWeekly(plan Plan, ledger []Adjustment, today time.Time, daysLeft int) Stats {
	weekStart := startOfISOWeek(today)
	weekEnd := weekStart.AddDate(0, 0, 7)
	lastWeekStart := weekStart.AddDate(0, 0, -7)

	// Only consumption counts toward "used"; credits never reduce it.
	used := consumedBetween(ledger, weekStart, weekEnd)
	usedLastWeek := consumedBetween(ledger, lastWeekStart, weekStart)
	remaining := maxInt(0, plan.WeeklyMeals-used)

	daysRemaining := daysBetween(today, weekEnd)
	return Stats{
		Remaining:    remaining,
		UsedTotal:    used,
		UsedThisWeek: used,
		UsedLastWeek: usedLastWeek,
		TrendPct:     trendPct(used, usedLastWeek),
		WastePct:     wastePct(remaining, daysRemaining),
		DaysLeft:     daysLeft,
	}
}

func computeSemester(plan Plan, ledger []Adjustment, daysLeft int) Stats {
	used := 0
	if plan.TotalMeals > 0 {
		elapsed := minInt(TermDays, maxInt(0, TermDays-daysLeft))
		used = int(math.Round(float64(plan.TotalMeals) * float64(elapsed) / TermDays))
	}
	// The whole ledger adjusts the baseline, not just this week's slice.
	for _, a := range ledger {
		used += a.Delta
	}
	used = maxInt(0, used)
	remaining := maxInt(0, plan.TotalMeals-used)

	avgPerDay := 0.0
	if plan.TotalMeals > 0 {
		avgPerDay = float64(plan.TotalMeals) / TermDays
	}
	thisWeek := maxInt(0, int(math.Round(avgPerDay*7)))
	// Placeholder comparison carried over from the original behaviour: the
	// prior week is projected as one meal fewer, not read from the ledger.
	lastWeek := maxInt(0, thisWeek-1)

	return Stats{
		Remaining:    remaining,
		UsedTotal:    used,
		UsedThisWeek: thisWeek,
		UsedLastWeek: lastWeek,
		TrendPct:     trendPct(thisWeek, lastWeek),
		WastePct:     wastePct(remaining, daysLeft),
		DaysLeft:     daysLeft,
	}
}

// consumedBetween sums meals consumed in [start, end): the negated sum of
// negative deltas only.
func consumedBetween(ledger []Adjustment, start, end time.Time) int {
	used := 0
	for _, a := range ledger {
		if a.Delta < 0 && !a.At.Before(start) && a.At.Before(end) {
			used -= a.Delta
		}
	}
	return used
}

func trendPct(thisWeek, lastWeek int) int {
	if lastWeek == 0 {
		return 0
	}
	return int(math.Round(float64(thisWeek-lastWeek) / float64(lastWeek) * 100))
}

func wastePct(remaining, daysRemaining int) int {
	if daysRemaining <= 0 {
		return 0
	}
	pct := int(math.Round(float64(remaining) / float64(maxInt(1, daysRemaining)) * wasteScale))
	return minInt(100, maxInt(0, pct))
}

// startOfISOWeek returns the Monday 00:00 of the ISO week containing t.
func startOfISOWeek(t time.Time) time.Time {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	weekday := int(d.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return d.AddDate(0, 0, 1-weekday)
}

// daysBetween counts whole calendar days from a to b, negative when b is
// before a.
func daysBetween(a, b time.Time) int {
	ad := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	bd := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(bd.Sub(ad).Hours() / 24)
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
