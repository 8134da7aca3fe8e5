package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/JonMunkholm/racedata/internal/store"
)

// upsertStmt is the prepared SQL for writing one table.
type upsertStmt struct {
	table   string
	columns []string
	key     []string
	insert  string // INSERT ... ON CONFLICT ... DO UPDATE ... WHERE changed
	exists  string // SELECT 1 ... WHERE key
}

// buildUpsert renders the upsert for a table. The DO UPDATE only fires when
// at least one non-key column differs, so re-writing identical values
// affects zero rows.
func buildUpsert(d store.Dialect, info TableInfo) upsertStmt {
	isKey := make(map[string]bool, len(info.ConflictKey))
	for _, k := range info.ConflictKey {
		isKey[k] = true
	}

	placeholders := make([]string, len(info.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}

	var sets, changed []string
	for _, c := range info.Columns {
		if isKey[c] {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = excluded.%s", c, c))
		changed = append(changed, d.Distinct(info.Key+"."+c, "excluded."+c))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (%s) ",
		info.Key,
		strings.Join(info.Columns, ", "),
		strings.Join(placeholders, ", "),
		strings.Join(info.ConflictKey, ", "),
	)
	if len(sets) == 0 {
		b.WriteString("DO NOTHING")
	} else {
		fmt.Fprintf(&b, "DO UPDATE SET %s WHERE %s",
			strings.Join(sets, ", "),
			strings.Join(changed, " OR "),
		)
	}

	conds := make([]string, len(info.ConflictKey))
	for i, k := range info.ConflictKey {
		conds[i] = k + " = ?"
	}

	return upsertStmt{
		table:   info.Key,
		columns: info.Columns,
		key:     info.ConflictKey,
		insert:  d.Rebind(b.String()),
		exists:  d.Rebind(fmt.Sprintf("SELECT 1 FROM %s WHERE %s", info.Key, strings.Join(conds, " AND "))),
	}
}

// exec writes one row and classifies the result.
//
// The key is probed before the write: a row that was absent and got written
// is Inserted, a row that existed and changed is Updated, and zero affected
// rows is Unchanged. Keys come from the data, so the driver's last insert id
// cannot tell inserts from updates.
func (u upsertStmt) exec(ctx context.Context, db DBTX, row Row) (Outcome, error) {
	keyArgs := make([]any, len(u.key))
	for i, k := range u.key {
		keyArgs[i] = row[k]
	}

	var one int
	existed := true
	if err := db.QueryRowContext(ctx, u.exists, keyArgs...).Scan(&one); err != nil {
		if !isNoRows(err) {
			return Unchanged, fmt.Errorf("probe %s: %w", u.table, err)
		}
		existed = false
	}

	args := make([]any, len(u.columns))
	for i, c := range u.columns {
		args[i] = row[c]
	}

	res, err := db.ExecContext(ctx, u.insert, args...)
	if err != nil {
		return Unchanged, fmt.Errorf("upsert %s: %w", u.table, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return Unchanged, fmt.Errorf("upsert %s: rows affected: %w", u.table, err)
	}

	switch {
	case n == 0:
		return Unchanged, nil
	case existed:
		return Updated, nil
	default:
		return Inserted, nil
	}
}
