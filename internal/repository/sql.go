package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"advisormetric/internal/models"
)

// Dialect selects placeholder style and schema handling for SQLStore.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

const feedbackColumns = "id, rating, source, comments, created_at"

var sqliteSchema = []string{
	`CREATE TABLE IF NOT EXISTS feedback_responses (
		id TEXT PRIMARY KEY,
		rating INTEGER NOT NULL,
		source TEXT,
		comments TEXT,
		created_at DATETIME NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS feedback_responses_created_at_idx ON feedback_responses (created_at)`,
}

// SQLStore persists feedback in the feedback_responses table. The Postgres
// schema is owned by the migrations in internal/database; the SQLite schema
// is created here.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
	clock   Clock
}

// NewSQLStore wraps an open database handle.
func NewSQLStore(ctx context.Context, db *sql.DB, dialect Dialect, clock Clock) (*SQLStore, error) {
	if clock == nil {
		clock = SystemClock
	}
	s := &SQLStore{db: db, dialect: dialect, clock: clock}
	switch dialect {
	case DialectPostgres:
	case DialectSQLite:
		for _, stmt := range sqliteSchema {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				return nil, unavailable("create sqlite schema", err)
			}
		}
	default:
		return nil, fmt.Errorf("unsupported sql dialect %q", dialect)
	}
	return s, nil
}

// Dialect reports which engine the store talks to.
func (s *SQLStore) Dialect() Dialect {
	return s.dialect
}

func (s *SQLStore) Create(ctx context.Context, in models.FeedbackInput) (*models.FeedbackResponse, error) {
	query := s.rebind(`INSERT INTO feedback_responses (` + feedbackColumns + `)
		VALUES (?, ?, ?, ?, ?)
		RETURNING ` + feedbackColumns)

	row := s.db.QueryRowContext(ctx, query,
		newID(), in.Rating, nullString(in.Source), nullString(in.Comments), s.timeArg(s.clock()))
	f, err := scanFeedback(row)
	if err != nil {
		return nil, unavailable("insert feedback", err)
	}
	return f, nil
}

func (s *SQLStore) ListAll(ctx context.Context) ([]*models.FeedbackResponse, error) {
	query := `SELECT ` + feedbackColumns + ` FROM feedback_responses ORDER BY created_at DESC`
	return s.query(ctx, "list feedback", query)
}

func (s *SQLStore) ListByDateRange(ctx context.Context, start, end time.Time) ([]*models.FeedbackResponse, error) {
	if start.After(end) {
		return []*models.FeedbackResponse{}, nil
	}
	query := s.rebind(`SELECT ` + feedbackColumns + ` FROM feedback_responses
		WHERE created_at >= ? AND created_at <= ?
		ORDER BY created_at DESC`)
	return s.query(ctx, "list feedback by date range", query, s.timeArg(start), s.timeArg(end))
}

func (s *SQLStore) query(ctx context.Context, op, query string, args ...any) ([]*models.FeedbackResponse, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable(op, err)
	}
	defer rows.Close()

	out := []*models.FeedbackResponse{}
	for rows.Next() {
		f, err := scanFeedback(rows)
		if err != nil {
			return nil, unavailable(op, err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(op, err)
	}
	return out, nil
}

// rebind turns ? placeholders into $n for Postgres.
func (s *SQLStore) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			fmt.Fprintf(&b, "$%d", n)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// sqliteTimeLayout is fixed width so text comparison matches time order.
const sqliteTimeLayout = "2006-01-02T15:04:05.000000Z"

func (s *SQLStore) timeArg(t time.Time) any {
	if s.dialect == DialectSQLite {
		return t.UTC().Format(sqliteTimeLayout)
	}
	return t.UTC()
}

// sqlTime scans a timestamp that may come back as time.Time or as text.
type sqlTime struct {
	time.Time
}

var sqlTimeLayouts = []string{
	sqliteTimeLayout,
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05",
}

func (t *sqlTime) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		t.Time = v
		return nil
	case string:
		return t.parse(v)
	case []byte:
		return t.parse(string(v))
	default:
		return fmt.Errorf("cannot scan %T into timestamp", src)
	}
}

func (t *sqlTime) parse(s string) error {
	for _, layout := range sqlTimeLayouts {
		if v, err := time.Parse(layout, s); err == nil {
			t.Time = v
			return nil
		}
	}
	return fmt.Errorf("unrecognized timestamp %q", s)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanFeedback(row scanner) (*models.FeedbackResponse, error) {
	var (
		f                models.FeedbackResponse
		source, comments sql.NullString
		created          sqlTime
	)
	if err := row.Scan(&f.ID, &f.Rating, &source, &comments, &created); err != nil {
		return nil, err
	}
	if source.Valid {
		f.Source = models.StringPtr(source.String)
	}
	if comments.Valid {
		f.Comments = models.StringPtr(comments.String)
	}
	f.CreatedAt = created.UTC()
	return &f, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
