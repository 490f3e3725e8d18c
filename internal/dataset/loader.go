// Package dataset reads labeled business ideas for training.
package dataset

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

const (
	TextColumn  = "idea_text"
	LabelColumn = "label"
)

var (
	ErrEmptyDataset  = errors.New("dataset is empty")
	ErrMissingColumn = errors.New("dataset is missing a required column")
)

// Record is one cleaned training example. Label is 0 (invalid) or 1 (valid).
type Record struct {
	Text  string `json:"idea_text"`
	Label int    `json:"label"`
}

// LoadStats counts what happened to the raw rows.
type LoadStats struct {
	Rows           int `json:"rows"`
	Kept           int `json:"kept"`
	DroppedLabel   int `json:"dropped_label"`
	DroppedEmpty   int `json:"dropped_empty"`
	ValidRecords   int `json:"valid"`
	InvalidRecords int `json:"invalid"`
}

type rawRow struct {
	Text  string
	Label string
}

// MapLabel maps "valid"/"1" to 1 and "invalid"/"0" to 0, case-insensitively.
// Anything else is unmapped.
func MapLabel(raw string) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "valid", "1":
		return 1, true
	case "invalid", "0":
		return 0, true
	default:
		return 0, false
	}
}

// Load reads a CSV or JSON dataset, choosing the format from the file
// content.
func Load(path string) ([]Record, LoadStats, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("detect dataset type: %w", err)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	switch {
	case mtype.Is("application/json"):
		return LoadJSON(file)
	case mtype.Is("application/x-ndjson"):
		return LoadJSONLines(file)
	default:
		return LoadCSV(file)
	}
}

// LoadCSV reads rows with a header naming the idea_text and label columns;
// other columns are ignored.
func LoadCSV(r io.Reader) ([]Record, LoadStats, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, LoadStats{}, ErrEmptyDataset
	}
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("read dataset header: %w", err)
	}

	textIdx, labelIdx := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case TextColumn:
			textIdx = i
		case LabelColumn:
			labelIdx = i
		}
	}
	if textIdx < 0 {
		return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrMissingColumn, TextColumn)
	}
	if labelIdx < 0 {
		return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrMissingColumn, LabelColumn)
	}

	var rows []rawRow
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, LoadStats{}, fmt.Errorf("read dataset line %d: %w", line, err)
		}
		row := rawRow{}
		if textIdx < len(record) {
			row.Text = record[textIdx]
		}
		if labelIdx < len(record) {
			row.Label = record[labelIdx]
		}
		rows = append(rows, row)
	}
	return clean(rows)
}

type jsonRow struct {
	Text  string          `json:"idea_text"`
	Label json.RawMessage `json:"label"`
}

// LoadJSON reads an array of {"idea_text": ..., "label": ...} objects. The
// label may be a string or a number.
func LoadJSON(r io.Reader) ([]Record, LoadStats, error) {
	var items []jsonRow
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, LoadStats{}, fmt.Errorf("decode dataset: %w", err)
	}
	return clean(lo.Map(items, func(item jsonRow, _ int) rawRow {
		return rawRow{Text: item.Text, Label: rawLabel(item.Label)}
	}))
}

// LoadJSONLines reads one JSON object per line.
func LoadJSONLines(r io.Reader) ([]Record, LoadStats, error) {
	var rows []rawRow
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		var item jsonRow
		if err := json.Unmarshal([]byte(text), &item); err != nil {
			return nil, LoadStats{}, fmt.Errorf("decode dataset line %d: %w", line, err)
		}
		rows = append(rows, rawRow{Text: item.Text, Label: rawLabel(item.Label)})
	}
	if err := scanner.Err(); err != nil {
		return nil, LoadStats{}, fmt.Errorf("read dataset: %w", err)
	}
	return clean(rows)
}

func rawLabel(msg json.RawMessage) string {
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(msg))
}

// clean drops rows with an empty text or an unmapped label.
func clean(rows []rawRow) ([]Record, LoadStats, error) {
	stats := LoadStats{Rows: len(rows)}
	records := lo.FilterMap(rows, func(row rawRow, _ int) (Record, bool) {
		text := strings.TrimSpace(row.Text)
		if text == "" {
			stats.DroppedEmpty++
			return Record{}, false
		}
		label, ok := MapLabel(row.Label)
		if !ok {
			stats.DroppedLabel++
			return Record{}, false
		}
		return Record{Text: text, Label: label}, true
	})

	stats.Kept = len(records)
	stats.ValidRecords = lo.CountBy(records, func(r Record) bool { return r.Label == 1 })
	stats.InvalidRecords = stats.Kept - stats.ValidRecords
	if len(records) == 0 {
		return nil, stats, ErrEmptyDataset
	}
	return records, stats, nil
}

// Texts returns the idea texts in order.
func Texts(records []Record) []string {
	return lo.Map(records, func(r Record, _ int) string { return r.Text })
}

// Labels returns the labels in order.
func Labels(records []Record) []int {
	return lo.Map(records, func(r Record, _ int) int { return r.Label })
}
