package store

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/clinic-quiz/internal/model"
)

// CSVHeader is the first line of every inquiries file.
const CSVHeader = "timestamp,name,phone,clinicName,email,recommendedSolution,answers"

const csvFields = 7

// CSVStore appends one quoted record per line to a flat file. Every record
// it holds is an inquiry.
type CSVStore struct {
	path string
}

// NewCSV returns a store writing to path. Nothing is created until the
// first write or Migrate.
func NewCSV(path string) *CSVStore {
	return &CSVStore{path: path}
}

func (s *CSVStore) Name() string { return "csv" }

// Path returns the file the store appends to.
func (s *CSVStore) Path() string { return s.path }

func (s *CSVStore) Close() error { return nil }

// Migrate creates the directory and the header line if the file is absent.
func (s *CSVStore) Migrate(_ context.Context) error {
	return s.ensureHeader()
}

// ensureHeader publishes a complete header-only file with a hard link, so a
// concurrent writer either sees no file or a file that already starts with
// the header. Losing the race is not an error.
func (s *CSVStore) ensureHeader() error {
	if _, err := os.Stat(s.path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return eris.Wrapf(err, "csv: stat %s", s.path)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return eris.Wrapf(err, "csv: create dir %s", dir)
	}

	tmp, err := os.CreateTemp(dir, ".inquiries-*.tmp")
	if err != nil {
		return eris.Wrap(err, "csv: create temp header")
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck

	if _, err := tmp.WriteString(CSVHeader + "\n"); err != nil {
		tmp.Close()
		return eris.Wrap(err, "csv: write header")
	}
	if err := tmp.Close(); err != nil {
		return eris.Wrap(err, "csv: close temp header")
	}

	err = os.Link(tmp.Name(), s.path)
	if err == nil || errors.Is(err, fs.ErrExist) {
		return nil
	}

	// Filesystems without hard links: exclusive create is still atomic,
	// though a racing append may land before the header is written.
	f, cerr := os.OpenFile(s.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(cerr, fs.ErrExist) {
		return nil
	}
	if cerr != nil {
		return eris.Wrapf(cerr, "csv: create %s", s.path)
	}
	defer f.Close()
	_, err = f.WriteString(CSVHeader + "\n")
	return eris.Wrap(err, "csv: write header")
}

// Write appends sub as a single line. The line is written with one write
// call on an O_APPEND descriptor so concurrent records do not interleave.
func (s *CSVStore) Write(_ context.Context, sub model.Submission) (string, error) {
	if err := s.ensureHeader(); err != nil {
		return "", err
	}

	line, err := EncodeCSVRecord(sub)
	if err != nil {
		return "", err
	}

	f, err := os.OpenFile(s.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return "", eris.Wrapf(err, "csv: open %s", s.path)
	}
	if _, err := f.WriteString(line); err != nil {
		f.Close()
		return "", eris.Wrap(err, "csv: append record")
	}
	return "", eris.Wrap(f.Close(), "csv: close")
}

// EncodeCSVRecord renders sub as a newline-terminated record with every
// field quoted and inner quotes doubled. Answers are JSON-encoded first.
func EncodeCSVRecord(sub model.Submission) (string, error) {
	answersJSON, err := json.Marshal(answersOrEmpty(sub.Answers))
	if err != nil {
		return "", eris.Wrap(err, "csv: marshal answers")
	}

	ts := sub.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}

	fields := []string{
		ts.UTC().Format(time.RFC3339Nano),
		sub.Name,
		sub.Phone,
		sub.ClinicName,
		sub.Email,
		sub.RecommendedSolution,
		string(answersJSON),
	}

	var b strings.Builder
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(quoteField(f))
	}
	b.WriteByte('\n')
	return b.String(), nil
}

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

func quoteField(s string) string {
	s = lineBreaks.Replace(s)
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func (s *CSVStore) ListInquiries(_ context.Context) ([]model.StoredInquiry, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "csv: open %s", s.path)
	}
	defer f.Close()

	return s.decode(f)
}

// decode parses each line on its own. The writer emits one record per
// line, so a truncated line cannot swallow the record after it. A line the
// CSV reader rejects is kept with the whole line as its answers.
func (s *CSVStore) decode(r io.Reader) ([]model.StoredInquiry, error) {
	br := bufio.NewReader(r)

	var out []model.StoredInquiry
	for lineNo := 1; ; lineNo++ {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return out, eris.Wrap(err, "csv: read line")
		}

		if text := strings.TrimRight(line, "\r\n"); strings.TrimSpace(text) != "" {
			rec, perr := parseLine(text)
			switch {
			case perr != nil:
				zap.L().Warn("csv: keeping unparseable line raw",
					zap.String("path", s.path),
					zap.Int("line", lineNo),
					zap.Error(perr),
				)
				out = append(out, model.StoredInquiry{RawAnswers: text, HasInquiry: true, Source: s.Name()})
			case !isHeader(rec):
				out = append(out, s.recordToInquiry(rec))
			}
		}

		if err == io.EOF {
			return out, nil
		}
	}
}

func parseLine(line string) ([]string, error) {
	cr := csv.NewReader(strings.NewReader(line))
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	return cr.Read()
}

func isHeader(rec []string) bool {
	return len(rec) >= 2 && rec[0] == "timestamp" && rec[1] == "name"
}

// recordToInquiry keeps whatever fields are present. Surplus fields are
// folded back into the answers column rather than dropped.
func (s *CSVStore) recordToInquiry(rec []string) model.StoredInquiry {
	field := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	si := model.StoredInquiry{
		Name:                field(1),
		Phone:               field(2),
		ClinicName:          field(3),
		Email:               field(4),
		RecommendedSolution: field(5),
		RawAnswers:          field(6),
		HasInquiry:          true,
		Source:              s.Name(),
	}
	if len(rec) > csvFields {
		si.RawAnswers = strings.Join(rec[csvFields-1:], ",")
	}

	si.Timestamp = parseStoredTime(field(0))
	if si.Timestamp.IsZero() {
		zap.L().Debug("csv: unparseable timestamp", zap.String("value", field(0)))
	}
	return si
}
