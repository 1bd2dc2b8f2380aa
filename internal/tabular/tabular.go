// Package tabular implements the tabular row reader named in spec §1 as an
// external collaborator: a RecordSource iterator yielding header+row pairs
// from a CSV file. No CSV library appears anywhere in the example corpus,
// and stdlib encoding/csv's row-at-a-time Reader maps directly onto the
// iterator contract Context.Next expects, so this is a thin stdlib wrapper
// rather than an adapted third-party dependency (see DESIGN.md A6).
package tabular

import (
	"encoding/csv"
	"io"
	"os"

	"github.com/blackcoderx/cannon/internal/varscope"
)

// CSVSource implements varscope.RecordSource over an open CSV file, reading
// the header row once at construction and yielding one map[string]string
// per subsequent row.
type CSVSource struct {
	file   *os.File
	reader *csv.Reader
	header []string
}

// Open reads the header row of the CSV file at path and returns a
// RecordSource over its remaining rows.
func Open(path string) (varscope.RecordSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	r := csv.NewReader(f)
	header, err := r.Read()
	if err != nil {
		f.Close()
		return nil, err
	}
	return &CSVSource{file: f, reader: r, header: header}, nil
}

// Next returns the next row as header->cell, or ok=false once the file is
// exhausted. Callers (Context.Next) leave the resource's prior variable
// value in place when ok is false, per §4.2.
func (s *CSVSource) Next() (map[string]string, bool, error) {
	if s.reader == nil {
		return nil, false, nil
	}
	record, err := s.reader.Read()
	if err == io.EOF {
		s.file.Close()
		s.reader = nil
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	row := make(map[string]string, len(s.header))
	for i, col := range s.header {
		if i < len(record) {
			row[col] = record[i]
		}
	}
	return row, true, nil
}
