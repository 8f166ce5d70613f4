package roster

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/bbhatt-git/QwickAttend-sub000/internal/metrics"
)

// ImportRowError reports one failed CSV row. Line is 1-based and counts
// the header.
type ImportRowError struct {
	Line    int    `json:"line"`
	Message string `json:"message"`
}

// ImportResult summarizes a CSV import. Row failures never abort the
// batch; they are collected here instead.
type ImportResult struct {
	Imported []Student        `json:"imported"`
	Errors   []ImportRowError `json:"errors"`
}

// ImportCSV reads a roster CSV and creates one student per valid row.
// The header must contain name, class and section columns in any order;
// header matching is case-insensitive. Section values must exactly match
// the allow-list.
func (s *Service) ImportCSV(ctx context.Context, teacherID string, r io.Reader) (ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return ImportResult{}, fmt.Errorf("read header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, required := range []string{"name", "class", "section"} {
		if _, ok := cols[required]; !ok {
			return ImportResult{}, fmt.Errorf("missing required column %q", required)
		}
	}

	var res ImportResult
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.Errors = append(res.Errors, ImportRowError{Line: line, Message: err.Error()})
			continue
		}
		name := field(record, cols["name"])
		class := field(record, cols["class"])
		section := field(record, cols["section"])
		st, err := s.Create(ctx, teacherID, name, class, section)
		if err != nil {
			res.Errors = append(res.Errors, ImportRowError{Line: line, Message: err.Error()})
			continue
		}
		metrics.ImportedStudents.Inc()
		res.Imported = append(res.Imported, st)
	}
	return res, nil
}

func field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
