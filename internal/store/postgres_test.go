package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	s := &PostgresStore{pool: mock}
	return s, mock
}

func TestPostgresStore_Migrate(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`pg_advisory_xact_lock`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))

	require.NoError(t, s.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Write(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	ts := time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC)
	sub := sampleSubmission("홍길동", ts)

	mock.ExpectExec(`INSERT INTO quiz_responses`).
		WithArgs(pgxmock.AnyArg(), "홍길동", "010-1234-5678", sub.ClinicName, "owner@example.com",
			sub.RecommendedSolution, []byte(`[{"questionId":1,"answer":"basic"},{"questionId":4,"answer":"content,conversion"}]`),
			true, ts).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	id, err := s.Write(context.Background(), sub)
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_WriteError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO quiz_responses`).
		WillReturnError(errors.New("relation \"quiz_responses\" does not exist"))

	_, err := s.Write(context.Background(), sampleSubmission("x", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: insert quiz response")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListInquiries(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	newer := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	older := newer.Add(-24 * time.Hour)

	rows := pgxmock.NewRows([]string{"id", "created_at", "name", "phone", "clinic_name", "email", "recommended_solution", "answers", "has_inquiry"}).
		AddRow("b", newer, "Kim", "010-1111-2222", "A치과", "kim@example.com", "SNS", `[{"answer": "sns", "questionId": 2}]`, true).
		AddRow("a", older, "Lee", "010-3333-4444", "B치과", "lee@example.com", "DX", `[]`, true)

	mock.ExpectQuery(`SELECT id, created_at, name .* FROM quiz_responses WHERE has_inquiry ORDER BY created_at DESC`).
		WillReturnRows(rows)

	got, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "postgres", got[0].Source)
	assert.Equal(t, `[{"answer": "sns", "questionId": 2}]`, got[0].RawAnswers)
	assert.True(t, got[1].Timestamp.Equal(older))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListInquiriesError(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`FROM quiz_responses`).WillReturnError(errors.New("connection refused"))

	_, err := s.ListInquiries(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: list inquiries")
}

func TestPostgresStore_ListInquiriesNullColumns(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	ts := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows([]string{"id", "created_at", "name", "phone", "clinic_name", "email", "recommended_solution", "answers", "has_inquiry"}).
		AddRow("b", ts, "Kim", nil, "A치과", nil, "SNS", nil, nil).
		AddRow("a", nil, "Lee", "010-3333-4444", "B치과", "lee@example.com", "DX", `[]`, true)

	mock.ExpectQuery(`FROM quiz_responses`).WillReturnRows(rows)

	got, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Kim", got[0].Name)
	assert.Empty(t, got[0].Phone)
	assert.Empty(t, got[0].RawAnswers)
	assert.True(t, got[0].HasInquiry)
	assert.True(t, got[0].Timestamp.Equal(ts))

	assert.Equal(t, "Lee", got[1].Name)
	assert.True(t, got[1].Timestamp.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}
