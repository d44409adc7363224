// ABOUTME: Habit on/off correlation with sleep score and deep sleep.
// ABOUTME: Only toggle-family habits with at least MinSamples nights per side are reported.
package insights

import (
	"math"
	"sort"

	"github.com/harperreed/nightly/internal/models"
)

// MinSamples is the smallest group size, on each side, for a result to be emitted.
const MinSamples = 3

// CorrelationResult summarizes sleep on nights with and without a habit.
type CorrelationResult struct {
	Habit           *models.Habit `json:"habit"`
	SamplesWith     int           `json:"samples_with"`
	SamplesWithout  int           `json:"samples_without"`
	AvgScoreWith    int           `json:"avg_score_with"`
	AvgScoreWithout int           `json:"avg_score_without"`
	AvgDeepWith     int           `json:"avg_deep_with"`
	AvgDeepWithout  int           `json:"avg_deep_without"`
	ScoreDiff       int           `json:"score_diff"`
	DeepDiff        int           `json:"deep_diff"`
}

type tally struct {
	n     int
	score int
	deep  int
}

func (t tally) mean(sum int) float64 {
	if t.n == 0 {
		return 0
	}
	return float64(sum) / float64(t.n)
}

// ComputeCorrelations partitions scored nights by whether each habit was on.
// A night without a log for the habit counts as off. A zero sleep score counts as missing.
// Results are ordered by descending absolute score difference; ties keep habit order.
func ComputeCorrelations(habits []*models.Habit, records []*models.SleepRecord, logs []*models.DailyLog) []CorrelationResult {
	logsByDate := make(map[string]models.DailyLogMap)
	for _, l := range logs {
		m, ok := logsByDate[l.Date]
		if !ok {
			m = models.DailyLogMap{}
			logsByDate[l.Date] = m
		}
		m[l.HabitID] = l.Value
	}

	var scored []*models.SleepRecord
	for _, r := range records {
		if r.SleepScore != nil && *r.SleepScore != 0 {
			scored = append(scored, r)
		}
	}

	results := []CorrelationResult{}
	for _, h := range habits {
		if !h.InputType.IsToggle() {
			continue
		}
		id := h.ID.String()

		var on, off tally
		for _, r := range scored {
			deep := 0
			if r.DeepSleepMinutes != nil {
				deep = *r.DeepSleepMinutes
			}
			t := &off
			if models.IsEnabled(h.InputType, logsByDate[r.Date][id]) {
				t = &on
			}
			t.n++
			t.score += *r.SleepScore
			t.deep += deep
		}

		if on.n < MinSamples || off.n < MinSamples {
			continue
		}

		scoreWith, scoreWithout := on.mean(on.score), off.mean(off.score)
		deepWith, deepWithout := on.mean(on.deep), off.mean(off.deep)

		results = append(results, CorrelationResult{
			Habit:           h,
			SamplesWith:     on.n,
			SamplesWithout:  off.n,
			AvgScoreWith:    roundInt(scoreWith),
			AvgScoreWithout: roundInt(scoreWithout),
			AvgDeepWith:     roundInt(deepWith),
			AvgDeepWithout:  roundInt(deepWithout),
			ScoreDiff:       roundInt(scoreWith - scoreWithout),
			DeepDiff:        roundInt(deepWith - deepWithout),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return absInt(results[i].ScoreDiff) > absInt(results[j].ScoreDiff)
	})
	return results
}

// roundInt rounds halves up, so -24.5 becomes -24.
func roundInt(f float64) int {
	return int(math.Floor(f + 0.5))
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
