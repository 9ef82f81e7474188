// Package aggregate builds the book catalog from award and list CSV
// sources, enriching each record with community ratings and volume
// metadata before persisting and indexing it.
package aggregate

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shelfscope/shelfscope-server/internal/logger"
	"github.com/shelfscope/shelfscope-server/internal/textclean"
	"github.com/shelfscope/shelfscope-server/internal/validation"
)

// Record is one merged (title, author) entry across all source files.
type Record struct {
	Title  string
	Author string
	Awards []string
	Lists  []string
}

// sourceRow is a single CSV row: title, author, honor.
type sourceRow struct {
	Title  string `json:"title" validate:"required"`
	Author string `json:"author" validate:"required"`
	Honor  string `json:"honor" validate:"required"`
}

// Loader reads award and list CSV files from a sources directory.
//
// Layout:
//
//	<path>/awards/*.csv  rows: title,author,honor
//	<path>/lists/*.csv   rows: title,author,list name
type Loader struct {
	path      string
	logger    *logger.Logger
	validator *validation.Validator
}

// NewLoader creates a loader rooted at path.
func NewLoader(path string, log *logger.Logger) *Loader {
	return &Loader{
		path:      path,
		logger:    log,
		validator: validation.New(),
	}
}

// Load reads every source file and merges rows by (title, author).
// Titles and authors are cleaned before merging so a mojibake variant
// of a name collapses into the same record. Rows that fail validation
// are logged and skipped rather than failing the whole load.
func (l *Loader) Load() ([]Record, error) {
	var records []Record
	index := make(map[string]int) // lowercase "title\x00author" -> records position

	merge := func(row sourceRow, isAward bool) {
		key := strings.ToLower(row.Title) + "\x00" + strings.ToLower(row.Author)
		pos, ok := index[key]
		if !ok {
			records = append(records, Record{Title: row.Title, Author: row.Author})
			pos = len(records) - 1
			index[key] = pos
		}
		if isAward {
			records[pos].Awards = appendUniqueHonor(records[pos].Awards, row.Honor)
		} else {
			records[pos].Lists = appendUniqueHonor(records[pos].Lists, row.Honor)
		}
	}

	awardRows, err := l.loadDir(filepath.Join(l.path, "awards"))
	if err != nil {
		return nil, err
	}
	for _, row := range awardRows {
		merge(row, true)
	}

	listRows, err := l.loadDir(filepath.Join(l.path, "lists"))
	if err != nil {
		return nil, err
	}
	for _, row := range listRows {
		merge(row, false)
	}

	return records, nil
}

// loadDir reads every CSV file in dir. A missing directory is not an
// error, sources may ship awards without lists or vice versa.
func (l *Loader) loadDir(dir string) ([]sourceRow, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read sources dir: %w", err)
	}

	var rows []sourceRow
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".csv") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		fileRows, err := l.loadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
		rows = append(rows, fileRows...)
	}
	return rows, nil
}

// loadFile parses one CSV file into validated rows.
func (l *Loader) loadFile(path string) ([]sourceRow, error) {
	f, err := os.Open(path) //#nosec G304 -- source paths come from operator config
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1 // validated per row below
	reader.TrimLeadingSpace = true

	var rows []sourceRow
	line := 0
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		line++

		// Optional header row.
		if line == 1 && len(fields) > 0 && strings.EqualFold(strings.TrimSpace(fields[0]), "title") {
			continue
		}

		if len(fields) < 3 {
			l.logger.Warn("skipping malformed source row",
				"file", filepath.Base(path),
				"line", line,
				"fields", len(fields),
			)
			continue
		}

		row := sourceRow{
			Title:  textclean.Clean(fields[0]),
			Author: textclean.Clean(fields[1]),
			Honor:  textclean.Clean(fields[2]),
		}

		if err := l.validator.Validate(row); err != nil {
			l.logger.Warn("skipping invalid source row",
				"file", filepath.Base(path),
				"line", line,
				"error", err,
			)
			continue
		}

		rows = append(rows, row)
	}

	return rows, nil
}

// appendUniqueHonor appends an honor if not already present (case-insensitive).
func appendUniqueHonor(honors []string, honor string) []string {
	for _, h := range honors {
		if strings.EqualFold(h, honor) {
			return honors
		}
	}
	return append(honors, honor)
}
