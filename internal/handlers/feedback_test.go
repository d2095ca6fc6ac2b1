package handlers

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"advisormetric/internal/analytics"
	"advisormetric/internal/models"
	"advisormetric/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2025, 7, 28, 9, 0, 0, 0, time.UTC)

func tickingClock() repository.Clock {
	n := 0
	return func() time.Time {
		t := t0.Add(time.Duration(n) * time.Minute)
		n++
		return t
	}
}

type recordingNotifier struct {
	published chan *models.FeedbackResponse
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{published: make(chan *models.FeedbackResponse, 16)}
}

func (n *recordingNotifier) Publish(ctx context.Context, f *models.FeedbackResponse) error {
	n.published <- f
	return nil
}

type failingStore struct{}

func (failingStore) Create(context.Context, models.FeedbackInput) (*models.FeedbackResponse, error) {
	return nil, fmt.Errorf("insert feedback: %w: dial tcp 10.0.0.5:5432: connection refused", repository.ErrStorageUnavailable)
}

func (failingStore) ListAll(context.Context) ([]*models.FeedbackResponse, error) {
	return nil, fmt.Errorf("list feedback: %w: pq secret detail", repository.ErrStorageUnavailable)
}

func (failingStore) ListByDateRange(context.Context, time.Time, time.Time) ([]*models.FeedbackResponse, error) {
	return nil, fmt.Errorf("list feedback: %w", repository.ErrStorageUnavailable)
}

func newTestHandler() (*FeedbackHandler, *repository.MemoryStore, *recordingNotifier) {
	store := repository.NewMemoryStore(tickingClock())
	notifier := newRecordingNotifier()
	return NewFeedbackHandler(store, notifier, zap.NewNop()), store, notifier
}

func post(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/feedback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func get(h http.HandlerFunc, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestSubmitFeedback_Success(t *testing.T) {
	h, store, notifier := newTestHandler()

	rec := post(h.SubmitFeedback, `{"rating":5,"source":"website","comments":"Great!"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got["id"])
	assert.Equal(t, float64(5), got["rating"])
	assert.Equal(t, "website", got["source"])
	assert.Equal(t, "Great!", got["comments"])
	assert.NotEmpty(t, got["createdAt"])
	assert.Equal(t, 1, store.Len())

	select {
	case f := <-notifier.published:
		assert.Equal(t, got["id"], f.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not called")
	}
}

func TestSubmitFeedback_OnlyRating(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := post(h.SubmitFeedback, `{"rating":1}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Nil(t, got["source"])
	assert.Nil(t, got["comments"])
}

func TestSubmitFeedback_Invalid(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		wantField string
	}{
		{"rating out of range", `{"rating":7}`, "rating"},
		{"rating zero", `{"rating":0}`, "rating"},
		{"missing rating", `{"source":"website"}`, "rating"},
		{"rating as string", `{"rating":"five"}`, "rating"},
		{"fractional rating", `{"rating":3.5}`, "rating"},
		{"source wrong type", `{"rating":3,"source":42}`, "source"},
		{"malformed json", `{"rating":`, "body"},
		{"empty body", ``, "body"},
		{"too large", `{"rating":3,"comments":"` + strings.Repeat("a", maxBodyBytes) + `"}`, "body"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			h, store, _ := newTestHandler()

			rec := post(h.SubmitFeedback, tc.body)
			require.Equal(t, http.StatusBadRequest, rec.Code)

			var got invalidResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, "Invalid feedback data", got.Message)
			require.NotEmpty(t, got.Errors)
			assert.Equal(t, tc.wantField, got.Errors[0].Field)
			assert.Equal(t, 0, store.Len())
		})
	}
}

func TestSubmitFeedback_StorageFailure(t *testing.T) {
	h := NewFeedbackHandler(failingStore{}, newRecordingNotifier(), zap.NewNop())

	rec := post(h.SubmitFeedback, `{"rating":4}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to save feedback"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "10.0.0.5")
}

func TestListFeedback_NewestFirst(t *testing.T) {
	h, _, _ := newTestHandler()

	require.Equal(t, http.StatusOK, post(h.SubmitFeedback, `{"rating":3}`).Code)
	require.Equal(t, http.StatusOK, post(h.SubmitFeedback, `{"rating":5}`).Code)

	rec := get(h.ListFeedback, "/api/feedback")
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.FeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 5, got[0].Rating)
	assert.Equal(t, 3, got[1].Rating)
}

func TestListFeedback_Empty(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := get(h.ListFeedback, "/api/feedback")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListFeedback_DateRange(t *testing.T) {
	h, _, _ := newTestHandler()
	for _, r := range []int{1, 2, 3, 4} {
		require.Equal(t, http.StatusOK, post(h.SubmitFeedback, fmt.Sprintf(`{"rating":%d}`, r)).Code)
	}

	// Stamped at t0, t0+1m, t0+2m, t0+3m.
	from := t0.Add(time.Minute).Format(time.RFC3339)
	to := t0.Add(2 * time.Minute).Format(time.RFC3339)
	rec := get(h.ListFeedback, "/api/feedback?from="+from+"&to="+to)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.FeedbackResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 2)
	assert.Equal(t, 3, got[0].Rating)
	assert.Equal(t, 2, got[1].Rating)

	rec = get(h.ListFeedback, "/api/feedback?from="+from)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 3)

	rec = get(h.ListFeedback, "/api/feedback?to=2025-07-28")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 4)

	rec = get(h.ListFeedback, "/api/feedback?from="+to+"&to="+from)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestListFeedback_BadDateRange(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := get(h.ListFeedback, "/api/feedback?from=yesterday&to=2025-13-01")
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var got invalidResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got.Errors, 2)
	assert.Equal(t, "from", got.Errors[0].Field)
	assert.Equal(t, "to", got.Errors[1].Field)
}

func TestListFeedback_StorageFailure(t *testing.T) {
	h := NewFeedbackHandler(failingStore{}, newRecordingNotifier(), zap.NewNop())

	rec := get(h.ListFeedback, "/api/feedback")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to retrieve feedback"}`, rec.Body.String())
}

func TestExportCSV(t *testing.T) {
	h, _, _ := newTestHandler()
	require.Equal(t, http.StatusOK, post(h.SubmitFeedback, `{"rating":2,"source":"referral","comments":"He said \"meh\", then left"}`).Code)
	require.Equal(t, http.StatusOK, post(h.SubmitFeedback, `{"rating":5}`).Code)

	rec := get(h.ExportCSV, "/api/feedback/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="feedback_responses.csv"`, rec.Header().Get("Content-Disposition"))

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "ID,Rating,Source,Comments,Created At\n"))
	assert.Contains(t, body, `"He said ""meh"", then left"`)

	rows, err := csv.NewReader(strings.NewReader(body)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"ID", "Rating", "Source", "Comments", "Created At"}, rows[0])

	// Newest first: the rating-5 record was stamped a minute later.
	assert.Equal(t, "5", rows[1][1])
	assert.Equal(t, "", rows[1][2])
	assert.Equal(t, "", rows[1][3])
	assert.Equal(t, "2025-07-28T09:01:00.000Z", rows[1][4])

	assert.Equal(t, "2", rows[2][1])
	assert.Equal(t, "referral", rows[2][2])
	assert.Equal(t, `He said "meh", then left`, rows[2][3])
	assert.Equal(t, "2025-07-28T09:00:00.000Z", rows[2][4])
}

func TestExportCSV_Empty(t *testing.T) {
	h, _, _ := newTestHandler()

	rec := get(h.ExportCSV, "/api/feedback/export")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ID,Rating,Source,Comments,Created At", rec.Body.String())
}

func TestExportCSV_StorageFailure(t *testing.T) {
	h := NewFeedbackHandler(failingStore{}, newRecordingNotifier(), zap.NewNop())

	rec := get(h.ExportCSV, "/api/feedback/export")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"Failed to export feedback data"}`, rec.Body.String())
	assert.NotContains(t, rec.Body.String(), "pq secret detail")
}

func TestStats(t *testing.T) {
	h, _, _ := newTestHandler()
	for _, body := range []string{
		`{"rating":5,"source":"website"}`,
		`{"rating":4,"source":"website"}`,
		`{"rating":1}`,
	} {
		require.Equal(t, http.StatusOK, post(h.SubmitFeedback, body).Code)
	}

	rec := get(h.Stats, "/api/feedback/stats")
	require.Equal(t, http.StatusOK, rec.Code)

	var got analytics.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, 3.3, got.AverageRating)
	assert.Equal(t, 1, got.RatingCounts["5"])
	assert.Equal(t, 0, got.RatingCounts["2"])
	assert.Equal(t, map[string]int{"website": 2}, got.SourceCounts)
}
