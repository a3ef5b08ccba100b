package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/clinic-quiz/internal/model"
)

func newTestCSVStore(t *testing.T) *CSVStore {
	t.Helper()
	return NewCSV(filepath.Join(t.TempDir(), "data", "inquiries.csv"))
}

func TestEncodeCSVRecord(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	sub := sampleSubmission("홍길동", ts)
	sub.Answers = []model.Answer{{QuestionID: 1, Answer: "basic"}}

	line, err := EncodeCSVRecord(sub)
	require.NoError(t, err)

	want := `"2026-01-02T03:04:05Z","홍길동","010-1234-5678","서울 ""스마일"" 치과","owner@example.com",` +
		`"입소문 중심 병원의 디지털 전환","[{""questionId"":1,""answer"":""basic""}]"` + "\n"
	assert.Equal(t, want, line)
}

func TestEncodeCSVRecord_LineBreaksAndNilAnswers(t *testing.T) {
	sub := sampleSubmission("a\nb", time.Now())
	sub.Answers = nil

	line, err := EncodeCSVRecord(sub)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(line, "\n"))
	assert.Contains(t, line, `"a b"`)
	assert.True(t, strings.HasSuffix(line, `"[]"`+"\n"))
}

func TestCSVStore_MigrateWritesHeaderOnce(t *testing.T) {
	s := newTestCSVStore(t)
	ctx := context.Background()

	require.NoError(t, s.Migrate(ctx))
	require.NoError(t, s.Migrate(ctx))
	_, err := s.Write(ctx, sampleSubmission("x", time.Now()))
	require.NoError(t, err)

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), CSVHeader))
	assert.True(t, strings.HasPrefix(string(data), CSVHeader+"\n"))
}

func TestCSVStore_RoundTrip(t *testing.T) {
	s := newTestCSVStore(t)
	ctx := context.Background()
	ts := time.Date(2026, 4, 5, 6, 7, 8, 900, time.UTC)
	sub := sampleSubmission("홍길동", ts)

	id, err := s.Write(ctx, sub)
	require.NoError(t, err)
	assert.Empty(t, id)

	got, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)

	rec := got[0]
	assert.True(t, rec.Timestamp.Equal(ts))
	assert.Equal(t, sub.Name, rec.Name)
	assert.Equal(t, sub.Phone, rec.Phone)
	assert.Equal(t, sub.ClinicName, rec.ClinicName)
	assert.Equal(t, sub.Email, rec.Email)
	assert.Equal(t, sub.RecommendedSolution, rec.RecommendedSolution)
	assert.True(t, rec.HasInquiry)
	assert.Equal(t, "csv", rec.Source)

	var answers []model.Answer
	require.NoError(t, json.Unmarshal([]byte(rec.RawAnswers), &answers))
	assert.Equal(t, sub.Answers, answers)
}

func TestCSVStore_ListMissingFile(t *testing.T) {
	s := newTestCSVStore(t)
	got, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestCSVStore_ConcurrentWrites(t *testing.T) {
	s := newTestCSVStore(t)
	ctx := context.Background()

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.Write(ctx, sampleSubmission(fmt.Sprintf("user-%02d", i), time.Now()))
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	data, err := os.ReadFile(s.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, n+1)
	assert.Equal(t, CSVHeader, lines[0])

	got, err := s.ListInquiries(ctx)
	require.NoError(t, err)
	require.Len(t, got, n)

	seen := make(map[string]bool, n)
	for _, rec := range got {
		seen[rec.Name] = true
		assert.Equal(t, "owner@example.com", rec.Email)
	}
	assert.Len(t, seen, n)
}

func TestCSVStore_MalformedRows(t *testing.T) {
	s := newTestCSVStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))

	content := CSVHeader + "\n" +
		`"not-a-time","Kim","010-1111-2222","A치과","kim@example.com","SNS"` + "\n" +
		`"2026-01-01T00:00:00Z","Lee","010-3333-4444","B치과","lee@example.com","DX","[{""questionId"":1","""answer"":""basic""}]"` + "\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	got, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Kim", got[0].Name)
	assert.True(t, got[0].Timestamp.IsZero())
	assert.Empty(t, got[0].RawAnswers)

	assert.Equal(t, "Lee", got[1].Name)
	assert.Equal(t, `[{"questionId":1,"answer":"basic"}]`, got[1].RawAnswers)
}

func TestCSVStore_TruncatedLineKeepsNextRecord(t *testing.T) {
	s := newTestCSVStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))

	content := CSVHeader + "\n" +
		`"2026-01-01T00:00:00Z","A","010-1111-2222","A치과","a@example.com","SNS","[]"` + "\n" +
		`"2026-01-02T00:00:00Z","B","010-3333-4444","B치과","b@example.com","DX","[{""questionId"":1,""answer"":""bas` + "\n" +
		`"2026-01-03T00:00:00Z","Cc","010-5555-6666","C치과","c@example.com","SEO","[{""questionId"":3,""answer"":""low""}]"` + "\n"
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	got, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, "A", got[0].Name)

	assert.Equal(t, "B", got[1].Name)
	assert.Equal(t, `[{"questionId":1,"answer":"bas`, got[1].RawAnswers)
	assert.NotContains(t, got[1].RawAnswers, "Cc")

	assert.Equal(t, "Cc", got[2].Name)
	assert.Equal(t, `[{"questionId":3,"answer":"low"}]`, got[2].RawAnswers)
	assert.True(t, got[2].Timestamp.Equal(time.Date(2026, 1, 3, 0, 0, 0, 0, time.UTC)))
}

func TestCSVStore_CRLFAndBlankLines(t *testing.T) {
	s := newTestCSVStore(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(s.Path()), 0o755))

	content := CSVHeader + "\r\n\r\n" +
		`"2026-01-01T00:00:00Z","A","010-1111-2222","A치과","a@example.com","SNS","[]"` + "\r\n" +
		`"2026-01-02T00:00:00Z","B","010-3333-4444","B치과","b@example.com","DX","[]"`
	require.NoError(t, os.WriteFile(s.Path(), []byte(content), 0o644))

	got, err := s.ListInquiries(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "[]", got[0].RawAnswers)
	assert.Equal(t, "B", got[1].Name)
}
