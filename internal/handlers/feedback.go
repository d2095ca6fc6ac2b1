package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"advisormetric/internal/analytics"
	"advisormetric/internal/models"
	"advisormetric/internal/notify"
	"advisormetric/internal/repository"

	"go.uber.org/zap"
)

const (
	maxBodyBytes  = 64 << 10
	notifyTimeout = 10 * time.Second
)

type FeedbackHandler struct {
	store    repository.Storage
	notifier notify.Notifier
	logger   *zap.Logger
}

func NewFeedbackHandler(store repository.Storage, notifier notify.Notifier, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		store:    store,
		notifier: notifier,
		logger:   logger,
	}
}

type invalidResponse struct {
	Message string              `json:"message"`
	Errors  []models.FieldError `json:"errors"`
}

// --- POST /api/feedback ---

func (h *FeedbackHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	var in models.FeedbackInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, invalidResponse{
			Message: "Invalid feedback data",
			Errors:  []models.FieldError{decodeFieldError(err)},
		})
		return
	}

	if err := in.Validate(); err != nil {
		var verr *models.ValidationError
		if !errors.As(err, &verr) {
			h.logger.Error("Error validating feedback", zap.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Failed to save feedback")
			return
		}
		writeJSON(w, http.StatusBadRequest, invalidResponse{Message: "Invalid feedback data", Errors: verr.Fields})
		return
	}

	feedback, err := h.store.Create(r.Context(), in)
	if err != nil {
		h.logger.Error("Error creating feedback", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to save feedback")
		return
	}

	// Notify in the background; the response does not wait for it.
	go h.publish(feedback.Clone())

	writeJSON(w, http.StatusOK, feedback)
}

func (h *FeedbackHandler) publish(f *models.FeedbackResponse) {
	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()
	if err := h.notifier.Publish(ctx, f); err != nil {
		h.logger.Warn("Error publishing feedback notification", zap.String("id", f.ID), zap.Error(err))
	}
}

// --- GET /api/feedback ---

func (h *FeedbackHandler) ListFeedback(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r, "Failed to retrieve feedback")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, records)
}

// --- GET /api/feedback/export ---

func (h *FeedbackHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.ListAll(r.Context())
	if err != nil {
		h.logger.Error("Error exporting feedback", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to export feedback data")
		return
	}

	var buf bytes.Buffer
	if err := writeFeedbackCSV(&buf, records); err != nil {
		h.logger.Error("Error rendering feedback CSV", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, "Failed to export feedback data")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// --- GET /api/feedback/stats ---

func (h *FeedbackHandler) Stats(w http.ResponseWriter, r *http.Request) {
	records, ok := h.load(w, r, "Failed to retrieve feedback statistics")
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, analytics.Summarize(records))
}

// load reads either everything or the from/to window given in the query.
// It writes the error response itself and reports whether to continue.
func (h *FeedbackHandler) load(w http.ResponseWriter, r *http.Request, failMsg string) ([]*models.FeedbackResponse, bool) {
	window, invalid := parseDateRange(r.URL.Query())
	if invalid != nil {
		writeJSON(w, http.StatusBadRequest, invalidResponse{Message: "Invalid date range", Errors: invalid})
		return nil, false
	}

	var (
		records []*models.FeedbackResponse
		err     error
	)
	if window == nil {
		records, err = h.store.ListAll(r.Context())
	} else {
		records, err = h.store.ListByDateRange(r.Context(), window.start, window.end)
	}
	if err != nil {
		h.logger.Error("Error listing feedback", zap.Error(err))
		writeMessage(w, http.StatusInternalServerError, failMsg)
		return nil, false
	}
	return records, true
}

func decodeFieldError(err error) models.FieldError {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
		maxErr    *http.MaxBytesError
	)
	switch {
	case errors.As(err, &typeErr):
		return models.FieldError{Field: typeErr.Field, Message: "must be a " + jsonTypeName(typeErr.Type.Kind().String())}
	case errors.As(err, &syntaxErr):
		return models.FieldError{Field: "body", Message: "malformed JSON"}
	case errors.As(err, &maxErr):
		return models.FieldError{Field: "body", Message: "request body too large"}
	default:
		return models.FieldError{Field: "body", Message: "could not be decoded"}
	}
}

func jsonTypeName(kind string) string {
	switch kind {
	case "int", "int64":
		return "integer"
	case "ptr", "string":
		return "string"
	default:
		return kind
	}
}
