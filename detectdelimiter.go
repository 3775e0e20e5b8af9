package svtargets

import (
	"bufio"
	"bytes"
	"strings"

	"github.com/csimplestring/go-csv/detector"
)

// Delimiters that a sample manifest may plausibly use. Anything else the
// detector proposes (path separators, underscores in sample names) is noise.
var manifestDelimiters = map[rune]struct{}{
	',':  {},
	'\t': {},
	';':  {},
	'|':  {},
}

// DetermineDelimiter returns the single most likely rune that would delimit the
// values in a manifest, ignoring lines that start with comment. Falls back to a
// comma.
func DetermineDelimiter(data []byte, comment rune) rune {
	var filtered bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if comment != 0 && strings.HasPrefix(line, string(comment)) {
			continue
		}
		filtered.WriteString(line)
		filtered.WriteByte('\n')
	}

	d := detector.New()
	delimiters := d.DetectDelimiter(&filtered, '"')

	for _, candidate := range delimiters {
		if len(candidate) == 0 {
			continue
		}
		if _, ok := manifestDelimiters[rune(candidate[0])]; ok {
			return rune(candidate[0])
		}
	}

	return ','
}
