package engine

import (
	"sort"
	"time"
)

// ScoredEntry is the slice of a stored habit entry the aggregation needs.
type ScoredEntry struct {
	Date  time.Time
	Score ScoreBreakdown
}

// Window is an inclusive range of calendar days.
type Window struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the window.
func (w Window) Days() int {
	return DaysBetween(w.Start, w.End) + 1
}

func (w Window) Validate() error {
	if err := ValidateDate(w.Start); err != nil {
		return err
	}
	if err := ValidateDate(w.End); err != nil {
		return err
	}
	if DaysBetween(w.Start, w.End) < 0 {
		return &InvalidRangeError{Start: w.Start, End: w.End}
	}
	return nil
}

// WeekEnding is the 7-day window whose last day is today.
func WeekEnding(today time.Time) Window {
	end := DayKey(today)
	return Window{Start: AddDays(end, -6), End: end}
}

type CategoryScores struct {
	Health       int `json:"health"`
	Fitness      int `json:"fitness"`
	Mindfulness  int `json:"mindfulness"`
	Productivity int `json:"productivity"`
}

func (c CategoryScores) mean() int {
	return roundHalfUp(float64(c.Health+c.Fitness+c.Mindfulness+c.Productivity) / 4)
}

// DailyAggregate rolls up one calendar day. TotalScore is the mean of the
// four category scores and is distinct from ScoreBreakdown.Total, which is a sum.
type DailyAggregate struct {
	Date       time.Time      `json:"date"`
	Entries    int            `json:"entries"`
	Completion int            `json:"completion"`
	Score      CategoryScores `json:"score"`
	TotalScore int            `json:"total_score"`
}

// BucketByDay groups entries under their day key, formatted as YYYY-MM-DD.
func BucketByDay(entries []ScoredEntry) map[string][]ScoredEntry {
	buckets := make(map[string][]ScoredEntry)
	for _, e := range entries {
		k := DayKey(e.Date).Format(DateLayout)
		buckets[k] = append(buckets[k], e)
	}
	return buckets
}

// AggregateDay rolls up the entries of a single day. No entries yields zeros.
func AggregateDay(day time.Time, entries []ScoredEntry) DailyAggregate {
	agg := DailyAggregate{Date: DayKey(day), Entries: len(entries)}
	if len(entries) == 0 {
		return agg
	}

	completed := 0
	var sums, counts [4]int
	for _, e := range entries {
		if e.Score.Completed() {
			completed++
		}
		for i, c := range ScoreCategories {
			if v := e.Score.Category(c); v > 0 {
				sums[i] += v
				counts[i]++
			}
		}
	}

	var means [4]int
	for i := range means {
		if counts[i] > 0 {
			means[i] = roundHalfUp(float64(sums[i]) / float64(counts[i]))
		}
	}

	agg.Completion = roundHalfUp(float64(completed) * 100 / float64(len(entries)))
	agg.Score = CategoryScores{Health: means[0], Fitness: means[1], Mindfulness: means[2], Productivity: means[3]}
	agg.TotalScore = agg.Score.mean()
	return agg
}

// BuildDailySeries returns one aggregate per day in the window, ascending,
// including zero-valued days with no entries. Entries outside the window are ignored.
func BuildDailySeries(entries []ScoredEntry, w Window) ([]DailyAggregate, error) {
	if err := w.Validate(); err != nil {
		return nil, err
	}
	for _, e := range entries {
		if err := ValidateDate(e.Date); err != nil {
			return nil, err
		}
	}

	buckets := BucketByDay(entries)
	n := w.Days()
	series := make([]DailyAggregate, 0, n)
	start := DayKey(w.Start)
	for i := 0; i < n; i++ {
		day := AddDays(start, i)
		series = append(series, AggregateDay(day, buckets[day.Format(DateLayout)]))
	}
	return series, nil
}

// AverageTotal divides by the full number of days in the series, so empty
// days pull the average down instead of being skipped.
func AverageTotal(series []DailyAggregate) float64 {
	if len(series) == 0 {
		return 0
	}
	sum := 0
	for _, d := range series {
		sum += d.TotalScore
	}
	return float64(sum) / float64(len(series))
}

// AverageCategories averages each category across every day of the series.
func AverageCategories(series []DailyAggregate) CategoryScores {
	if len(series) == 0 {
		return CategoryScores{}
	}
	var h, f, m, p int
	for _, d := range series {
		h += d.Score.Health
		f += d.Score.Fitness
		m += d.Score.Mindfulness
		p += d.Score.Productivity
	}
	n := float64(len(series))
	return CategoryScores{
		Health:       roundHalfUp(float64(h) / n),
		Fitness:      roundHalfUp(float64(f) / n),
		Mindfulness:  roundHalfUp(float64(m) / n),
		Productivity: roundHalfUp(float64(p) / n),
	}
}

type ProgressTrend struct {
	Daily       int `json:"daily"`
	Weekly      int `json:"weekly"`
	Improvement int `json:"improvement"`
}

// WeeklyReport is the dashboard rollup for the week ending today.
type WeeklyReport struct {
	Series            []DailyAggregate `json:"series"`
	TodayScore        int              `json:"today_score"`
	WeeklyAverage     int              `json:"weekly_average"`
	PreviousAverage   int              `json:"previous_average"`
	CategoryBreakdown CategoryScores   `json:"category_breakdown"`
	Trend             ProgressTrend    `json:"progress_trend"`
}

// ComputeWeeklyReport aggregates the 7 days ending today and compares them
// with the 7 days before that.
func ComputeWeeklyReport(entries []ScoredEntry, today time.Time) (WeeklyReport, error) {
	if err := ValidateDate(today); err != nil {
		return WeeklyReport{}, err
	}
	this := WeekEnding(today)
	prev := WeekEnding(AddDays(this.Start, -1))

	series, err := BuildDailySeries(entries, this)
	if err != nil {
		return WeeklyReport{}, err
	}
	prevSeries, err := BuildDailySeries(entries, prev)
	if err != nil {
		return WeeklyReport{}, err
	}

	weekly := roundHalfUp(AverageTotal(series))
	previous := roundHalfUp(AverageTotal(prevSeries))
	todayScore := series[len(series)-1].TotalScore

	return WeeklyReport{
		Series:            series,
		TodayScore:        todayScore,
		WeeklyAverage:     weekly,
		PreviousAverage:   previous,
		CategoryBreakdown: AverageCategories(series),
		Trend: ProgressTrend{
			Daily:       todayScore,
			Weekly:      weekly,
			Improvement: weekly - previous,
		},
	}, nil
}

// DayScore is one day's mean entry total, used for best/worst day reporting.
type DayScore struct {
	Date  time.Time `json:"date"`
	Score int       `json:"score"`
}

// HabitSummary is a lifetime rollup of a user's entries.
type HabitSummary struct {
	TotalEntries int       `json:"total_entries"`
	AverageScore int       `json:"average_score"`
	BestDay      *DayScore `json:"best_day,omitempty"`
	WorstDay     *DayScore `json:"worst_day,omitempty"`
}

// Summarize computes the average entry total and the best and worst days.
// Ties go to the earlier day.
func Summarize(entries []ScoredEntry) HabitSummary {
	if len(entries) == 0 {
		return HabitSummary{}
	}
	sum := 0
	for _, e := range entries {
		sum += e.Score.Total
	}

	buckets := BucketByDay(entries)
	keys := make([]string, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var best, worst *DayScore
	for _, k := range keys {
		day := buckets[k]
		total := 0
		for _, e := range day {
			total += e.Score.Total
		}
		ds := DayScore{Date: DayKey(day[0].Date), Score: roundHalfUp(float64(total) / float64(len(day)))}
		if best == nil || ds.Score > best.Score {
			b := ds
			best = &b
		}
		if worst == nil || ds.Score < worst.Score {
			w := ds
			worst = &w
		}
	}

	return HabitSummary{
		TotalEntries: len(entries),
		AverageScore: roundHalfUp(float64(sum) / float64(len(entries))),
		BestDay:      best,
		WorstDay:     worst,
	}
}
