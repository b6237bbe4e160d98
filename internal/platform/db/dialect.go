package db

import (
	"strconv"
	"strings"
)

// Rebind rewrites ? placeholders into $n form for postgres.
// Queries are written once with ? and passed through Rebind before use.
func Rebind(driver, query string) string {
	if driver != DriverPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// GooseDialect maps a driver name to the migration dialect.
func GooseDialect(driver string) string {
	if driver == DriverPostgres {
		return "postgres"
	}
	return "sqlite3"
}
