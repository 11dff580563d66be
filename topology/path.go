package topology

import (
	"strconv"
	"strings"
)

// ParsePath reads whitespace or comma separated relay ids, such as
// "1 2 3 5". Tokens that are not integers in [1, maxID] are skipped.
func ParsePath(line string, maxID int) Path {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})

	path := Path{}
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			continue
		}

		if v >= 1 && v <= maxID {
			path = append(path, v)
		}
	}

	return path
}

// String formats the path the way ParsePath reads it.
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, id := range p {
		parts[i] = strconv.Itoa(id)
	}

	return strings.Join(parts, " ")
}
