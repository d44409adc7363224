// ABOUTME: Sleep trend series built from stored records.
// ABOUTME: Missing nights stay missing; null fields pass through unchanged.
package insights

import "github.com/harperreed/nightly/internal/models"

// TrendPoint is one night in a trend series.
type TrendPoint struct {
	Date       string `json:"date"`
	SleepScore *int   `json:"sleep_score"`
	Readiness  *int   `json:"readiness"`
	Deep       *int   `json:"deep"`
	Rem        *int   `json:"rem"`
	Light      *int   `json:"light"`
	Total      *int   `json:"total"`
}

// BuildTrends maps records to points in the order given.
func BuildTrends(records []*models.SleepRecord) []TrendPoint {
	points := make([]TrendPoint, 0, len(records))
	for _, r := range records {
		points = append(points, TrendPoint{
			Date:       r.Date,
			SleepScore: r.SleepScore,
			Readiness:  r.ReadinessScore,
			Deep:       r.DeepSleepMinutes,
			Rem:        r.RemSleepMinutes,
			Light:      r.LightSleepMinutes,
			Total:      r.TotalSleepMinutes,
		})
	}
	return points
}
