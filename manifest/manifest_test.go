package manifest

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/carbocation/svtargets"
	"github.com/google/go-cmp/cmp"
)

func parse(t *testing.T, doc string, mode svtargets.WorkflowMode) []SampleRecord {
	t.Helper()

	records, err := Parse(strings.NewReader(doc), Options{Name: "samples.csv", Mode: mode})
	if err != nil {
		t.Fatal(err)
	}

	return records
}

func TestParsePaired(t *testing.T) {
	doc := "PATH,SAMPLE1,SAMPLE2\nruns,A,B\nruns,C,D\n"

	got := parse(t, doc, svtargets.ModePaired)
	want := []SampleRecord{
		{Path: "runs", Sample1: "A", Sample2: "B", Dir: "runs/A--B"},
		{Path: "runs", Sample1: "C", Sample2: "D", Dir: "runs/C--D"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSingleIgnoresSample2(t *testing.T) {
	doc := "PATH,SAMPLE1,SAMPLE2\nruns,A,B\nruns,C,\n"

	got := parse(t, doc, svtargets.ModeSingle)
	if len(got) != 2 {
		t.Fatalf("got %d records", len(got))
	}
	if got[0].Dir != "runs/A" || got[1].Dir != "runs/C" {
		t.Errorf("got dirs %q, %q", got[0].Dir, got[1].Dir)
	}
	if got[0].Sample2 != "" {
		t.Errorf("SAMPLE2 should be dropped in single mode, got %q", got[0].Sample2)
	}
}

func TestParseSingleWithoutSample2Column(t *testing.T) {
	got := parse(t, "PATH,SAMPLE1\nruns,A\n", svtargets.ModeSingle)
	if len(got) != 1 || got[0].Dir != "runs/A" {
		t.Errorf("got %+v", got)
	}
}

func TestParseHeaderOrderIsPositional(t *testing.T) {
	got := parse(t, "SAMPLE2,PATH,SAMPLE1\nB,runs,A\n", svtargets.ModePaired)
	if len(got) != 1 || got[0].Dir != "runs/A--B" {
		t.Errorf("got %+v", got)
	}
}

func TestParseSkipsCommentsAnywhere(t *testing.T) {
	plain := "PATH,SAMPLE1,SAMPLE2\nruns,A,B\nruns,C,D\n"
	commented := "# cohort 1\n#PATH,X\nPATH,SAMPLE1,SAMPLE2\n# first pair\nruns,A,B\n#runs,X,Y\n\nruns,C,D\n# trailing\n"

	want := parse(t, plain, svtargets.ModePaired)
	got := parse(t, commented, svtargets.ModePaired)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("comments changed the records (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	if got := parse(t, "", svtargets.ModePaired); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
	if got := parse(t, "# nothing here\nPATH,SAMPLE1,SAMPLE2\n", svtargets.ModePaired); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}

func TestParseTabDelimited(t *testing.T) {
	records, err := Parse(strings.NewReader("PATH\tSAMPLE1\nruns\tA\n"), Options{Mode: svtargets.ModeSingle, Comma: '\t'})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || records[0].Dir != "runs/A" {
		t.Errorf("got %+v", records)
	}
}

func TestRowErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		mode    svtargets.WorkflowMode
		index   int
		missing []string
		values  []string
	}{
		{
			name:    "missing SAMPLE2 in paired mode",
			doc:     "PATH,SAMPLE1,SAMPLE2\nruns,A,\n",
			mode:    svtargets.ModePaired,
			index:   1,
			missing: []string{FieldSample2},
			values:  []string{"runs", "A", ""},
		},
		{
			name:    "short row",
			doc:     "PATH,SAMPLE1,SAMPLE2\nruns,A,B\nruns,C\n",
			mode:    svtargets.ModePaired,
			index:   2,
			missing: []string{FieldSample2},
			values:  []string{"runs", "C"},
		},
		{
			name:    "SAMPLE2 column absent in paired mode",
			doc:     "PATH,SAMPLE1\nruns,A\n",
			mode:    svtargets.ModePaired,
			index:   1,
			missing: []string{FieldSample2},
			values:  []string{"runs", "A"},
		},
		{
			name:    "empty PATH and SAMPLE1",
			doc:     "PATH,SAMPLE1,SAMPLE2\n,,B\n",
			mode:    svtargets.ModeSingle,
			index:   1,
			missing: []string{FieldPath, FieldSample1},
			values:  []string{"", "", "B"},
		},
		{
			name:    "comments are not counted",
			doc:     "# header next\nPATH,SAMPLE1,SAMPLE2\nruns,A,B\n# a comment\n# another\nruns,C,\n",
			mode:    svtargets.ModePaired,
			index:   2,
			missing: []string{FieldSample2},
			values:  []string{"runs", "C", ""},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			records, err := Parse(strings.NewReader(test.doc), Options{Name: "samples.csv", Mode: test.mode})
			if records != nil {
				t.Errorf("expected no records, got %+v", records)
			}

			var rowErr *RowError
			if !errors.As(err, &rowErr) {
				t.Fatalf("expected RowError, got %v", err)
			}
			if rowErr.Index != test.index {
				t.Errorf("index: got %d, want %d", rowErr.Index, test.index)
			}
			if rowErr.Manifest != "samples.csv" {
				t.Errorf("manifest: got %q", rowErr.Manifest)
			}
			if diff := cmp.Diff(test.missing, rowErr.Missing); diff != "" {
				t.Errorf("missing mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(test.values, rowErr.Values); diff != "" {
				t.Errorf("values mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseRejectsInvalidMode(t *testing.T) {
	if _, err := Parse(strings.NewReader("PATH,SAMPLE1\nruns,A\n"), Options{}); err == nil {
		t.Error("expected an error for an unset mode")
	}
}

type fakeSource struct {
	content string
	opened  []string
	closed  bool
}

func (f *fakeSource) Open(path string) (io.ReadCloser, error) {
	f.opened = append(f.opened, path)
	return &trackingCloser{Reader: strings.NewReader(f.content), closed: &f.closed}, nil
}

type trackingCloser struct {
	io.Reader
	closed *bool
}

func (c *trackingCloser) Close() error {
	*c.closed = true
	return nil
}

func TestReadClosesOnSuccess(t *testing.T) {
	src := &fakeSource{content: "PATH,SAMPLE1,SAMPLE2\nruns,A,B\n"}

	records, err := Read(src, "samples.csv", Options{Mode: svtargets.ModePaired, Comma: ','})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("got %d records", len(records))
	}
	if !src.closed {
		t.Error("manifest was not closed")
	}
}

func TestReadClosesOnRowError(t *testing.T) {
	src := &fakeSource{content: "PATH,SAMPLE1,SAMPLE2\nruns,A,\n"}

	_, err := Read(src, "samples.csv", Options{Mode: svtargets.ModePaired})
	var rowErr *RowError
	if !errors.As(err, &rowErr) {
		t.Fatalf("expected RowError, got %v", err)
	}
	if rowErr.Manifest != "samples.csv" {
		t.Errorf("manifest name should default to the path, got %q", rowErr.Manifest)
	}
	if !src.closed {
		t.Error("manifest was not closed")
	}
}

func TestReadDetectsTabs(t *testing.T) {
	src := &fakeSource{content: "# samples\nPATH\tSAMPLE1\tSAMPLE2\nruns\tA\tB\nruns\tC\tD\nruns\tE\tF\n"}

	records, err := Read(src, "samples.tsv", Options{Mode: svtargets.ModePaired})
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 || records[2].Dir != "runs/E--F" {
		t.Errorf("got %+v", records)
	}
}
