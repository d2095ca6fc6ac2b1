package notify

import (
	"context"

	"advisormetric/internal/models"

	"go.uber.org/zap"
)

// LogNotifier writes each feedback response to the log. It is the default
// when no email delivery is configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Publish(ctx context.Context, f *models.FeedbackResponse) error {
	n.logger.Info("New feedback received",
		zap.String("id", f.ID),
		zap.Int("rating", f.Rating),
		zap.String("source", f.SourceValue()),
		zap.Int("commentsLength", len(f.CommentsValue())),
	)
	return nil
}
