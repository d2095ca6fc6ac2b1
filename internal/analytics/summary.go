// Package analytics aggregates submitted feedback for the dashboard.
package analytics

import (
	"math"
	"strconv"

	"advisormetric/internal/models"
)

// Summary is the dashboard view of a set of feedback responses.
type Summary struct {
	Total int `json:"total"`
	// RatingCounts always carries keys "1" through "5".
	RatingCounts map[string]int `json:"ratingCounts"`
	// AverageRating is rounded to one decimal; 0 when there is no feedback.
	AverageRating float64 `json:"averageRating"`
	// ExcellentPercent is the share of rating-5 answers as a whole percent.
	ExcellentPercent int            `json:"excellentPercent"`
	SourceCounts     map[string]int `json:"sourceCounts"`
}

// Summarize computes totals, per-rating and per-source counts. Records
// without a source are left out of SourceCounts.
func Summarize(records []*models.FeedbackResponse) Summary {
	s := Summary{
		Total:        len(records),
		RatingCounts: make(map[string]int, models.MaxRating),
		SourceCounts: map[string]int{},
	}
	for r := models.MinRating; r <= models.MaxRating; r++ {
		s.RatingCounts[strconv.Itoa(r)] = 0
	}
	if len(records) == 0 {
		return s
	}

	sum := 0
	for _, f := range records {
		sum += f.Rating
		s.RatingCounts[strconv.Itoa(f.Rating)]++
		if src := f.SourceValue(); src != "" {
			s.SourceCounts[src]++
		}
	}
	s.AverageRating = math.Round(float64(sum)/float64(s.Total)*10) / 10
	s.ExcellentPercent = int(math.Round(float64(s.RatingCounts[strconv.Itoa(models.MaxRating)]) / float64(s.Total) * 100))
	return s
}
