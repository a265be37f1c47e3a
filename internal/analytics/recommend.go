package analytics

import (
	"fmt"
	"time"

	"github.com/love-prep/backend/internal/models"
)

const (
	focusMaxRate      = 0.7
	focusMinAttempts  = 5
	coachMinAttempts  = 5
	strongMinAttempts = 10
)

// WeekDays lays out the last seven UTC days ending today, oldest first,
// filling days without attempts with zeros.
func WeekDays(now time.Time, daily map[string]models.DailyActivity) []models.DailyActivity {
	today := now.UTC().Truncate(24 * time.Hour)
	out := make([]models.DailyActivity, 0, 7)
	for i := 6; i >= 0; i-- {
		day := today.AddDate(0, 0, -i).Format(time.DateOnly)
		d, ok := daily[day]
		if !ok {
			d = models.DailyActivity{Date: day}
		}
		out = append(out, d)
	}
	return out
}

// Today returns the attempts recorded for the last day of week.
func Today(week []models.DailyActivity) int {
	if len(week) == 0 {
		return 0
	}
	return week[len(week)-1].Attempts
}

// Weakest returns the lowest-rate category with at least minAttempts and a
// rate under maxRate. categories must be sorted by rate ascending.
func Weakest(categories []models.CategoryStats, minAttempts int, maxRate float64) *models.CategoryStats {
	for _, c := range categories {
		if c.Attempts >= minAttempts && c.SuccessRate < maxRate {
			c := c
			return &c
		}
	}
	return nil
}

// Strongest returns the highest-rate category with at least minAttempts.
func Strongest(categories []models.CategoryStats, minAttempts int) *models.CategoryStats {
	var best *models.CategoryStats
	for i := range categories {
		c := categories[i]
		if c.Attempts < minAttempts {
			continue
		}
		if best == nil || c.SuccessRate > best.SuccessRate {
			best = &c
		}
	}
	return best
}

// Recommend builds the advisory list: a focus area when a category is weak,
// and the daily goal while it is unmet.
func Recommend(categories []models.CategoryStats, answeredToday, dailyGoal int) []models.Recommendation {
	recs := []models.Recommendation{}

	if weak := Weakest(categories, focusMinAttempts, focusMaxRate); weak != nil {
		recs = append(recs, models.Recommendation{
			Type:     models.RecommendFocusArea,
			Title:    "Focus on " + weak.Category,
			Text:     fmt.Sprintf("Your success rate is %.1f%%", weak.SuccessRate*100),
			Category: weak.Category,
		})
	}

	if answeredToday < dailyGoal {
		remaining := dailyGoal - answeredToday
		recs = append(recs, models.Recommendation{
			Type:      models.RecommendDailyGoal,
			Title:     fmt.Sprintf("Daily goal: %d/%d", answeredToday, dailyGoal),
			Text:      fmt.Sprintf("Answer %d more questions", remaining),
			Remaining: remaining,
		})
	}
	return recs
}
