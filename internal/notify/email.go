package notify

import (
	"context"
	"fmt"
	"html"

	"advisormetric/internal/models"

	"github.com/resend/resend-go/v2"
)

// EmailSender is the part of the Resend client used here.
type EmailSender interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// EmailNotifier mails low ratings to a staff address through Resend.
type EmailNotifier struct {
	sender    EmailSender
	from      string
	to        []string
	maxRating int
}

// NewEmailNotifier builds a notifier that sends an email for every response
// rated maxRating or lower.
func NewEmailNotifier(sender EmailSender, from string, to []string, maxRating int) *EmailNotifier {
	return &EmailNotifier{sender: sender, from: from, to: to, maxRating: maxRating}
}

// NewResendNotifier is NewEmailNotifier backed by a Resend API client.
func NewResendNotifier(apiKey, from string, to []string, maxRating int) *EmailNotifier {
	return NewEmailNotifier(resend.NewClient(apiKey).Emails, from, to, maxRating)
}

func (n *EmailNotifier) Publish(ctx context.Context, f *models.FeedbackResponse) error {
	if f.Rating > n.maxRating || len(n.to) == 0 {
		return nil
	}
	msg := FormatMessage(f)
	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      n.to,
		Subject: fmt.Sprintf("Low feedback rating: %d/5", f.Rating),
		Text:    msg,
		Html:    "<pre style=\"font-family: sans-serif;\">" + html.EscapeString(msg) + "</pre>",
	}
	if _, err := n.sender.SendWithContext(ctx, params); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
