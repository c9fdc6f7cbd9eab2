package store

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/tabletalk/tabletalk/internal/intent"
	"github.com/tabletalk/tabletalk/internal/intentsql"
)

var rePlaceholder = regexp.MustCompile(`:p\d+`)

// Rebind rewrites a compiled statement's :pN placeholders to the active
// driver's positional form and orders the argument values to match: ?
// for SQLite, $1..$N for Postgres. A placeholder with no bound value is
// a compiler bug and is reported, never passed through.
func (s *Store) Rebind(stmt *intentsql.Statement) (string, []any, error) {
	var args []any
	var missing string
	n := 0

	text := rePlaceholder.ReplaceAllStringFunc(stmt.Text, func(ph string) string {
		name := strings.TrimPrefix(ph, ":")
		val, ok := stmt.Params[name]
		if !ok {
			missing = name
			return ph
		}
		args = append(args, intent.Native(val))
		n++
		if s.driver == DriverPostgres {
			return "$" + strconv.Itoa(n)
		}
		return "?"
	})

	if missing != "" {
		return "", nil, fmt.Errorf("statement references unbound parameter %q", missing)
	}
	return text, args, nil
}
