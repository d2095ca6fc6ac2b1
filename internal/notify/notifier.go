// Package notify tells staff about newly submitted feedback.
package notify

import (
	"context"
	"fmt"
	"strings"

	"advisormetric/internal/models"
)

// Notifier publishes a message about a stored feedback response.
type Notifier interface {
	Publish(ctx context.Context, f *models.FeedbackResponse) error
}

var ratingLabels = map[int]string{
	1: "Very Poor",
	2: "Poor",
	3: "Fair",
	4: "Good",
	5: "Excellent",
}

// FormatMessage renders a plain-text summary of a feedback response.
func FormatMessage(f *models.FeedbackResponse) string {
	var b strings.Builder
	b.WriteString("New feedback received\n")
	fmt.Fprintf(&b, "Rating: %s %d/5 (%s)\n", strings.Repeat("*", f.Rating), f.Rating, ratingLabels[f.Rating])
	if src := f.SourceValue(); src != "" {
		fmt.Fprintf(&b, "Source: %s\n", src)
	}
	if c := f.CommentsValue(); c != "" {
		fmt.Fprintf(&b, "Comments: %s\n", c)
	}
	fmt.Fprintf(&b, "Submitted: %s", f.CreatedAt.UTC().Format("2006-01-02 15:04:05 UTC"))
	return b.String()
}
