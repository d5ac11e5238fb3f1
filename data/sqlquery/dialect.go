package sqlquery

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect renders the parts of a statement that differ between databases.
type Dialect interface {
	Name() string
	// Placeholder returns the bind marker of the n-th argument, starting at 1.
	Placeholder(n int) string
	// Quote quotes an identifier.
	Quote(ident string) string
	// Limit renders the LIMIT/OFFSET clause. take < 0 means no limit.
	Limit(take, skip int) string
}

type mysqlDialect struct{}

func (mysqlDialect) Name() string          { return "mysql" }
func (mysqlDialect) Placeholder(int) string { return "?" }
func (mysqlDialect) Quote(ident string) string {
	return quoteWith(ident, "`")
}
func (mysqlDialect) Limit(take, skip int) string {
	if take < 0 {
		if skip == 0 {
			return ""
		}
		// MySQL has no OFFSET without LIMIT.
		return fmt.Sprintf(" LIMIT 18446744073709551615 OFFSET %d", skip)
	}
	return limitOffset(take, skip)
}

type postgresDialect struct{}

func (postgresDialect) Name() string            { return "postgres" }
func (postgresDialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }
func (postgresDialect) Quote(ident string) string {
	return quoteWith(ident, `"`)
}
func (postgresDialect) Limit(take, skip int) string {
	if take < 0 {
		if skip == 0 {
			return ""
		}
		return fmt.Sprintf(" OFFSET %d", skip)
	}
	return limitOffset(take, skip)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string          { return "sqlite" }
func (sqliteDialect) Placeholder(int) string { return "?" }
func (sqliteDialect) Quote(ident string) string {
	return quoteWith(ident, `"`)
}
func (sqliteDialect) Limit(take, skip int) string {
	if take < 0 {
		if skip == 0 {
			return ""
		}
		return fmt.Sprintf(" LIMIT -1 OFFSET %d", skip)
	}
	return limitOffset(take, skip)
}

// Supported dialects.
var (
	MySQL    Dialect = mysqlDialect{}
	Postgres Dialect = postgresDialect{}
	SQLite   Dialect = sqliteDialect{}
)

// DialectFor returns the dialect of a data driver name.
func DialectFor(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "mysql":
		return MySQL, nil
	case "postgres", "postgresql", "pgx":
		return Postgres, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	default:
		return nil, fmt.Errorf("sqlquery: no dialect for driver %q", driver)
	}
}

func limitOffset(take, skip int) string {
	if skip > 0 {
		return fmt.Sprintf(" LIMIT %d OFFSET %d", take, skip)
	}
	return fmt.Sprintf(" LIMIT %d", take)
}

// quoteWith quotes each dot-separated part of ident.
func quoteWith(ident, q string) string {
	parts := strings.Split(ident, ".")
	for i, p := range parts {
		parts[i] = q + strings.ReplaceAll(p, q, q+q) + q
	}
	return strings.Join(parts, ".")
}

// rebind rewrites '?' markers in clause for d, numbering from next. Markers
// inside single-quoted literals are left alone.
func rebind(d Dialect, clause string, next int) (string, int) {
	var b strings.Builder
	quoted := false
	for _, r := range clause {
		switch {
		case r == '\'':
			quoted = !quoted
			b.WriteRune(r)
		case r == '?' && !quoted:
			b.WriteString(d.Placeholder(next))
			next++
		default:
			b.WriteRune(r)
		}
	}
	return b.String(), next
}
