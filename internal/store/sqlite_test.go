package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/clinic-quiz/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_WriteAndList(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	id1, err := st.Write(ctx, sampleSubmission("first", base))
	require.NoError(t, err)
	id2, err := st.Write(ctx, sampleSubmission("second", base.Add(time.Hour)))
	require.NoError(t, err)
	assert.NotEmpty(t, id1)
	assert.NotEqual(t, id1, id2)

	noInquiry := sampleSubmission("quiz only", base.Add(2*time.Hour))
	noInquiry.HasInquiry = false
	_, err = st.Write(ctx, noInquiry)
	require.NoError(t, err)

	got, err := st.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "second", got[0].Name)
	assert.Equal(t, id2, got[0].ID)
	assert.Equal(t, "first", got[1].Name)
	assert.Equal(t, "sqlite", got[0].Source)
	assert.True(t, got[0].HasInquiry)
	assert.Equal(t, `서울 "스마일" 치과`, got[0].ClinicName)
	assert.True(t, got[1].Timestamp.Equal(base), "timestamp %v", got[1].Timestamp)

	var answers []model.Answer
	require.NoError(t, json.Unmarshal([]byte(got[0].RawAnswers), &answers))
	assert.Equal(t, sampleSubmission("", base).Answers, answers)
}

func TestSQLite_WriteNilAnswers(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	sub := sampleSubmission("no answers", time.Now())
	sub.Answers = nil
	_, err := st.Write(ctx, sub)
	require.NoError(t, err)

	got, err := st.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "[]", got[0].RawAnswers)
}

func TestSQLite_WriteAfterClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "closed.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.Close())

	_, err = st.Write(context.Background(), sampleSubmission("x", time.Now()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlite: insert quiz response")
}

func TestSQLite_ListKeepsRowWithUnreadableTimestamp(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	_, err := st.Write(ctx, sampleSubmission("valid", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
	require.NoError(t, err)
	_, err = st.db.ExecContext(ctx,
		`INSERT INTO quiz_responses (id, name, phone, clinic_name, email, recommended_solution, answers, has_inquiry, created_at)
		 VALUES ('legacy', 'imported', '010-0000-0000', 'C치과', 'c@example.com', 'SEO', '[]', 1, 'not-a-date')`)
	require.NoError(t, err)

	got, err := st.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	byName := map[string]model.StoredInquiry{}
	for _, si := range got {
		byName[si.Name] = si
	}
	assert.True(t, byName["imported"].Timestamp.IsZero())
	assert.Equal(t, "legacy", byName["imported"].ID)
	assert.True(t, byName["valid"].Timestamp.Equal(time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)))
}
