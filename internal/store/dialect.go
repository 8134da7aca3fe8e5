package store

import (
	"fmt"
	"strconv"
	"strings"
)

// Dialect covers the SQL that differs between SQLite and PostgreSQL.
// Queries are written with ? placeholders and passed through Rebind.
type Dialect interface {
	Name() string

	// Rebind rewrites ? placeholders into the driver's bind syntax.
	Rebind(query string) string

	// Distinct returns a null-safe "a differs from b" expression.
	Distinct(a, b string) string

	// TimestampType is the column type for instants.
	TimestampType() string

	// TouchTrigger returns the statements that keep updated_at current on
	// every update of table.
	TouchTrigger(table string, key []string) []string
}

// DialectFor returns the dialect for a database/sql driver name.
func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite":
		return sqliteDialect{}, nil
	case "pgx":
		return postgresDialect{}, nil
	default:
		return nil, fmt.Errorf("no dialect for driver %q", driver)
	}
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string               { return "sqlite" }
func (sqliteDialect) Rebind(query string) string { return query }
func (sqliteDialect) TimestampType() string      { return "TIMESTAMP" }

func (sqliteDialect) Distinct(a, b string) string {
	return a + " IS NOT " + b
}

func (sqliteDialect) TouchTrigger(table string, key []string) []string {
	conds := make([]string, len(key))
	for i, k := range key {
		conds[i] = fmt.Sprintf("%s = OLD.%s", k, k)
	}
	return []string{fmt.Sprintf(`CREATE TRIGGER IF NOT EXISTS %[1]s_touch_updated_at
AFTER UPDATE ON %[1]s FOR EACH ROW
WHEN NEW.updated_at = OLD.updated_at
BEGIN
	UPDATE %[1]s SET updated_at = CURRENT_TIMESTAMP WHERE %[2]s;
END`, table, strings.Join(conds, " AND "))}
}

type postgresDialect struct{}

func (postgresDialect) Name() string          { return "postgres" }
func (postgresDialect) TimestampType() string { return "TIMESTAMPTZ" }

func (postgresDialect) Distinct(a, b string) string {
	return a + " IS DISTINCT FROM " + b
}

// Rebind numbers placeholders left to right, skipping quoted text.
func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for i := 0; i < len(query); i++ {
		c := query[i]
		switch {
		case c == '\'':
			inQuote = !inQuote
			b.WriteByte(c)
		case c == '?' && !inQuote:
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

func (postgresDialect) TouchTrigger(table string, _ []string) []string {
	return []string{
		`CREATE OR REPLACE FUNCTION touch_updated_at() RETURNS trigger AS $$
BEGIN
	NEW.updated_at = now();
	RETURN NEW;
END;
$$ LANGUAGE plpgsql`,
		fmt.Sprintf(`CREATE OR REPLACE TRIGGER %[1]s_touch_updated_at
BEFORE UPDATE ON %[1]s FOR EACH ROW EXECUTE FUNCTION touch_updated_at()`, table),
	}
}
