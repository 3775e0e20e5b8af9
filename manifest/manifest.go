// Package manifest parses the sample sheet that lists the samples (or sample
// pairs) of a run and where their data live.
package manifest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/carbocation/pfx"
	"github.com/carbocation/svtargets"
)

// Header fields.
const (
	FieldPath    = "PATH"
	FieldSample1 = "SAMPLE1"
	FieldSample2 = "SAMPLE2"
)

// DefaultComment marks lines to skip wherever they appear.
const DefaultComment = '#'

// SampleRecord is one data row of the manifest.
type SampleRecord struct {
	Path    string
	Sample1 string
	Sample2 string // Empty in single mode

	// Dir is PATH/SAMPLE1 or PATH/SAMPLE1--SAMPLE2, depending on the mode
	Dir string
}

// Options controls how a manifest is parsed.
type Options struct {
	// Name identifies the manifest in error messages.
	Name string

	Mode svtargets.WorkflowMode

	// Comma is the field delimiter. If zero, Read detects it and Parse uses
	// a comma.
	Comma rune

	// Comment defaults to DefaultComment.
	Comment rune
}

// Source opens a manifest by path.
type Source interface {
	Open(path string) (io.ReadCloser, error)
}

// RequiredFields lists the header fields a data row must fill in mode.
func RequiredFields(mode svtargets.WorkflowMode) []string {
	if mode == svtargets.ModePaired {
		return []string{FieldPath, FieldSample1, FieldSample2}
	}

	return []string{FieldPath, FieldSample1}
}

// Read opens the manifest at path through src, parses it, and closes it.
func Read(src Source, path string, opts Options) (records []SampleRecord, err error) {
	rc, err := src.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rc.Close(); cerr != nil && err == nil {
			records, err = nil, pfx.Err(cerr)
		}
	}()

	if opts.Name == "" {
		opts.Name = path
	}

	if opts.Comma != 0 {
		return Parse(rc, opts)
	}

	// Delimiter detection needs the content twice; sample sheets are small.
	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, pfx.Err(err)
	}
	opts.Comma = svtargets.DetermineDelimiter(data, commentOrDefault(opts.Comment))

	return Parse(bytes.NewReader(data), opts)
}

// Parse reads the header and every data row from r. It stops at the first
// row that lacks a field required by opts.Mode.
func Parse(r io.Reader, opts Options) ([]SampleRecord, error) {
	if opts.Mode != svtargets.ModeSingle && opts.Mode != svtargets.ModePaired {
		return nil, fmt.Errorf("manifest %s: unsupported workflow mode %v", opts.Name, opts.Mode)
	}

	comma := opts.Comma
	if comma == 0 {
		comma = ','
	}
	comment := commentOrDefault(opts.Comment)
	if comma == comment {
		return nil, fmt.Errorf("manifest %s: delimiter and comment marker are both %q", opts.Name, comma)
	}

	cr := csv.NewReader(r)
	cr.Comma = comma
	cr.Comment = comment
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err == io.EOF {
		return []SampleRecord{}, nil
	} else if err != nil {
		return nil, pfx.Err(fmt.Errorf("manifest %s: %w", opts.Name, err))
	}

	// Later duplicates of a header name win, as with a dict-style reader
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[name] = i
	}

	required := RequiredFields(opts.Mode)
	records := make([]SampleRecord, 0)

	// Comment and blank lines never reach us, so index counts data rows only
	for index := 1; ; index++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(fmt.Errorf("manifest %s: %w", opts.Name, err))
		}

		values := make(map[string]string, len(required))
		var missing []string
		for _, field := range required {
			v, ok := lookup(row, columns, field)
			if !ok {
				missing = append(missing, field)
				continue
			}
			values[field] = v
		}

		if len(missing) > 0 {
			return nil, &RowError{
				Manifest: opts.Name,
				Index:    index,
				Values:   append([]string(nil), row...),
				Missing:  missing,
			}
		}

		rec := SampleRecord{
			Path:    values[FieldPath],
			Sample1: values[FieldSample1],
		}
		if opts.Mode == svtargets.ModePaired {
			rec.Sample2 = values[FieldSample2]
		}
		rec.Dir = opts.Mode.SampleDir(rec.Path, rec.Sample1, rec.Sample2)
		records = append(records, rec)
	}

	return records, nil
}

// lookup treats an absent column, a short row, and an empty value alike.
func lookup(row []string, columns map[string]int, field string) (string, bool) {
	col, exists := columns[field]
	if !exists || col >= len(row) || row[col] == "" {
		return "", false
	}

	return row[col], true
}

func commentOrDefault(comment rune) rune {
	if comment == 0 {
		return DefaultComment
	}

	return comment
}
