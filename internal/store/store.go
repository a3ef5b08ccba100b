// Package store provides the durable backends an inquiry can be written to.
package store

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// Writer durably records a submission. Writes append a self-contained
// record and never modify earlier ones, so concurrent calls are safe.
// An empty id means the backend does not assign identifiers.
type Writer interface {
	Name() string
	Write(ctx context.Context, sub model.Submission) (id string, err error)
}

// Reader lists stored submissions that carry an inquiry.
type Reader interface {
	Name() string
	ListInquiries(ctx context.Context) ([]model.StoredInquiry, error)
}

// Store is a backend that can be written, read and migrated.
type Store interface {
	Writer
	Reader

	// Migrate creates the backing structure if it does not exist. It is
	// safe to call repeatedly and concurrently.
	Migrate(ctx context.Context) error
	Close() error
}

func answersOrEmpty(a []model.Answer) []model.Answer {
	if a == nil {
		return []model.Answer{}
	}
	return a
}

// storedTimeLayouts covers RFC 3339, the modernc driver's time.Time string
// form and SQLite's datetime('now').
var storedTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05",
}

// parseStoredTime returns the zero time when no layout matches.
func parseStoredTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range storedTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// storedTimeOf converts whatever a driver hands back for a timestamp
// column. Unreadable values give the zero time instead of failing the row.
func storedTimeOf(v any) time.Time {
	switch x := v.(type) {
	case time.Time:
		return x
	case string:
		return parseStoredTime(x)
	case []byte:
		return parseStoredTime(string(x))
	default:
		return time.Time{}
	}
}

// inquiryRow receives one listing row. Every target is nullable so a row
// with missing columns is still listed.
type inquiryRow struct {
	id, name, phone, clinic, email, solution, answers sql.NullString
	createdAt                                         any
	hasInquiry                                        sql.NullBool
}

// dest matches the column order of the listing queries.
func (r *inquiryRow) dest() []any {
	return []any{&r.id, &r.createdAt, &r.name, &r.phone, &r.clinic, &r.email, &r.solution, &r.answers, &r.hasInquiry}
}

func (r *inquiryRow) inquiry(source string) model.StoredInquiry {
	return model.StoredInquiry{
		ID:                  r.id.String,
		Timestamp:           storedTimeOf(r.createdAt),
		Name:                r.name.String,
		Phone:               r.phone.String,
		ClinicName:          r.clinic.String,
		Email:               r.email.String,
		RecommendedSolution: r.solution.String,
		RawAnswers:          r.answers.String,
		HasInquiry:          r.hasInquiry.Bool || !r.hasInquiry.Valid,
		Source:              source,
	}
}

func logSkippedRow(backend string, err error) {
	zap.L().Warn("store: skipping unreadable inquiry row",
		zap.String("backend", backend),
		zap.Error(err),
	)
}
