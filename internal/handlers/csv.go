package handlers

import (
	"io"
	"strconv"
	"strings"

	"advisormetric/internal/models"
)

const (
	exportFilename = "feedback_responses.csv"
	csvHeader      = "ID,Rating,Source,Comments,Created At"
	// ISO-8601 in UTC with millisecond precision.
	csvTimeLayout = "2006-01-02T15:04:05.000Z"
)

// writeFeedbackCSV renders records as CSV with every field quoted and
// embedded quotes doubled. Rows are separated by \n with no trailing newline.
func writeFeedbackCSV(w io.Writer, records []*models.FeedbackResponse) error {
	var b strings.Builder
	b.WriteString(csvHeader)
	for _, f := range records {
		b.WriteByte('\n')
		writeCSVRow(&b,
			f.ID,
			strconv.Itoa(f.Rating),
			f.SourceValue(),
			f.CommentsValue(),
			f.CreatedAt.UTC().Format(csvTimeLayout),
		)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func writeCSVRow(b *strings.Builder, fields ...string) {
	for i, field := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(field, `"`, `""`))
		b.WriteByte('"')
	}
}
