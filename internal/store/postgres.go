package store

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/clinic-quiz/internal/db"
	"github.com/sells-group/clinic-quiz/internal/model"
)

// PostgresStore implements Store on a pgx pool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// NewPostgres connects to Postgres and returns a store backed by the pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *db.PoolConfig) (*PostgresStore, error) {
	pool, err := db.Connect(ctx, connString, poolCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: connect")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

// The advisory lock serializes concurrent migrations; CREATE ... IF NOT
// EXISTS alone can still race on the catalog.
const postgresMigration = `
SELECT pg_advisory_xact_lock(72510806);

CREATE TABLE IF NOT EXISTS quiz_responses (
	id                   TEXT PRIMARY KEY,
	name                 TEXT NOT NULL,
	phone                TEXT NOT NULL,
	clinic_name          TEXT NOT NULL,
	email                TEXT NOT NULL,
	recommended_solution TEXT NOT NULL,
	answers              JSONB NOT NULL,
	has_inquiry          BOOLEAN NOT NULL DEFAULT false,
	created_at           TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_quiz_responses_inquiry ON quiz_responses(has_inquiry, created_at DESC);
`

func (s *PostgresStore) Name() string { return "postgres" }

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) Write(ctx context.Context, sub model.Submission) (string, error) {
	id := uuid.New().String()

	answersJSON, err := json.Marshal(answersOrEmpty(sub.Answers))
	if err != nil {
		return "", eris.Wrap(err, "postgres: marshal answers")
	}

	createdAt := sub.Timestamp
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO quiz_responses (id, name, phone, clinic_name, email, recommended_solution, answers, has_inquiry, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		id, sub.Name, sub.Phone, sub.ClinicName, sub.Email, sub.RecommendedSolution, answersJSON, sub.HasInquiry, createdAt,
	)
	if err != nil {
		return "", eris.Wrap(err, "postgres: insert quiz response")
	}
	return id, nil
}

func (s *PostgresStore) ListInquiries(ctx context.Context) ([]model.StoredInquiry, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, created_at, name, phone, clinic_name, email, recommended_solution, answers::text, has_inquiry
		 FROM quiz_responses WHERE has_inquiry ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list inquiries")
	}
	defer rows.Close()

	// pgx closes the rows on a scan error, so a bad row ends the listing
	// early but keeps what was already read.
	var (
		out     []model.StoredInquiry
		skipped error
	)
	for rows.Next() {
		var r inquiryRow
		if err := rows.Scan(r.dest()...); err != nil {
			logSkippedRow(s.Name(), err)
			skipped = err
			continue
		}
		out = append(out, r.inquiry(s.Name()))
	}
	if err := rows.Err(); err != nil && err != skipped {
		return out, eris.Wrap(err, "postgres: list inquiries iterate")
	}
	return out, nil
}
