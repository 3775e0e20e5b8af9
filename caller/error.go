package caller

import (
	"fmt"
	"strings"

	"github.com/carbocation/svtargets/config"
)

// UnsupportedCallerError lists enabled callers that are absent from the
// supported-callers mapping. It unwraps to a *config.Error.
type UnsupportedCallerError struct {
	Names     []Name
	Supported []Name
}

func (e *UnsupportedCallerError) Error() string {
	return e.Unwrap().Error()
}

func (e *UnsupportedCallerError) Unwrap() error {
	quoted := make([]string, len(e.Names))
	for i, name := range e.Names {
		quoted[i] = "'" + string(name) + "'"
	}

	return &config.Error{
		Key:    "enable_callers",
		Reason: fmt.Sprintf("SV caller(s) %s not supported (supported: %s)", strings.Join(quoted, ", "), joinNames(e.Supported)),
	}
}

func joinNames(names []Name) string {
	s := make([]string, len(names))
	for i, name := range names {
		s[i] = string(name)
	}

	return strings.Join(s, ", ")
}
