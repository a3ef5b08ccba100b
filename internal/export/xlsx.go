// Package export renders inquiries as a spreadsheet for the admin.
package export

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/clinic-quiz/internal/catalog"
	"github.com/sells-group/clinic-quiz/internal/model"
)

// SheetName is the worksheet title.
const SheetName = "치과마케팅문의"

// Headers are the column titles in order.
var Headers = []string{"번호", "접수일시", "이름", "치과명", "연락처", "이메일", "추천 솔루션", "퀴즈 답변"}

var colWidths = []float64{5, 20, 10, 15, 15, 25, 20, 50}

// KST is the zone timestamps are displayed in.
var KST = time.FixedZone("KST", 9*60*60)

// FileName returns the download name for an export produced at now.
func FileName(now time.Time) string {
	return fmt.Sprintf("%s_%s.xlsx", SheetName, now.In(KST).Format("2006-01-02"))
}

// Rows builds the sheet body, newest inquiry first, numbered from 1.
func Rows(views []model.SubmissionView, cat *catalog.Catalog) [][]string {
	sorted := make([]model.SubmissionView, len(views))
	copy(sorted, views)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})

	rows := make([][]string, 0, len(sorted))
	for i, v := range sorted {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			FormatTimestamp(v.Timestamp),
			v.Name,
			v.ClinicName,
			v.Phone,
			v.Email,
			v.RecommendedSolution,
			FormatAnswers(v, cat),
		})
	}
	return rows
}

// FormatTimestamp renders ts in KST, or an empty string when unknown.
func FormatTimestamp(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.In(KST).Format("2006-01-02 15:04:05")
}

// FormatAnswers renders one line per answer, using the option text when
// the catalog knows it. Undecodable answers are returned raw.
func FormatAnswers(v model.SubmissionView, cat *catalog.Catalog) string {
	if v.Answers == nil {
		return v.RawAnswers
	}

	lines := make([]string, 0, len(v.Answers))
	for _, a := range v.Answers {
		text := a.Answer
		if cat != nil {
			if q, ok := cat.Question(a.QuestionID); ok {
				if opt, ok := q.Option(a.Answer); ok {
					text = opt.Text
				}
			}
		}
		lines = append(lines, fmt.Sprintf("질문%d: %s", a.QuestionID, text))
	}
	return strings.Join(lines, "\n")
}

// WriteXLSX writes the inquiries as a single-sheet workbook to w.
func WriteXLSX(w io.Writer, views []model.SubmissionView, cat *catalog.Catalog) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	addRow(sheet, Headers)
	for _, r := range Rows(views, cat) {
		addRow(sheet, r)
	}

	for i, width := range colWidths {
		sheet.SetColWidth(i, i, width)
	}

	if err := f.Write(w); err != nil {
		return eris.Wrap(err, "export: write workbook")
	}
	return nil
}

func addRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}
