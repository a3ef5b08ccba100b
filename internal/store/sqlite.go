package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It serves as the
// primary tier for single-host deployments without Postgres.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS quiz_responses (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	phone                TEXT NOT NULL,
	clinic_name          TEXT NOT NULL,
	email                TEXT NOT NULL,
	recommended_solution TEXT NOT NULL,
	answers              TEXT NOT NULL,
	has_inquiry          INTEGER NOT NULL DEFAULT 0,
	created_at           DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_quiz_responses_inquiry ON quiz_responses(has_inquiry, created_at);
`

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Write(ctx context.Context, sub model.Submission) (string, error) {
	id := uuid.New().String()

	answersJSON, err := json.Marshal(answersOrEmpty(sub.Answers))
	if err != nil {
		return "", eris.Wrap(err, "sqlite: marshal answers")
	}

	createdAt := sub.Timestamp.UTC()
	if sub.Timestamp.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO quiz_responses (id, name, phone, clinic_name, email, recommended_solution, answers, has_inquiry, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, sub.Name, sub.Phone, sub.ClinicName, sub.Email, sub.RecommendedSolution, string(answersJSON), sub.HasInquiry, createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "sqlite: insert quiz response")
	}
	return id, nil
}

func (s *SQLiteStore) ListInquiries(ctx context.Context) ([]model.StoredInquiry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, name, phone, clinic_name, email, recommended_solution, answers, has_inquiry
		 FROM quiz_responses WHERE has_inquiry = 1 ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list inquiries")
	}
	defer rows.Close()

	var out []model.StoredInquiry
	for rows.Next() {
		var r inquiryRow
		if err := rows.Scan(r.dest()...); err != nil {
			logSkippedRow(s.Name(), err)
			continue
		}
		out = append(out, r.inquiry(s.Name()))
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list inquiries iterate")
}
