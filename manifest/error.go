package manifest

import (
	"fmt"
	"strings"
)

// RowError reports a data row that lacks a required value. Index is 1-based
// and counts data rows only.
type RowError struct {
	Manifest string
	Index    int
	Values   []string
	Missing  []string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Missing value(s) %s in '%s' at record #%d: %q",
		strings.Join(e.Missing, ", "), e.Manifest, e.Index, e.Values)
}
