package core

import (
	"context"
	"database/sql"
	"time"
)

// DBTX is the interface for database operations.
// Satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// FieldType represents the expected data type for a CSV field.
type FieldType int

const (
	FieldText FieldType = iota
	FieldEnum
	FieldDateTime
	FieldInt
)

// FieldSpec describes one positional CSV column and the database column it
// is written to.
type FieldSpec struct {
	Name       string              // database column name
	Type       FieldType           // expected data type
	Required   bool                // empty or missing values skip the row
	EnumValues []string            // valid values for FieldEnum, matched case-insensitively
	Normalizer func(string) string // optional transform applied before conversion
}

// TableInfo contains display information about an import table.
type TableInfo struct {
	Key   string // import key and CSV base name: "race"
	Label string // display name: "Races"
	Order int    // position in directory imports; parents first

	// ConflictKey is the upsert conflict target. It must match the table's
	// primary key; the importer does not infer it.
	ConflictKey []string

	Columns []string // column order, derived from FieldSpecs
}

// Row holds the converted values of one CSV line keyed by column name.
type Row map[string]any

// TransformFunc adjusts a converted row before it is written. Returning an
// error skips the row with the error text as the reason.
type TransformFunc func(Row) error

// TableDefinition contains everything needed to import a table.
type TableDefinition struct {
	Info       TableInfo
	FieldSpecs []FieldSpec
	Transform  TransformFunc // optional
}

// SkippedRow records a CSV line that was not written.
type SkippedRow struct {
	FileName   string
	LineNumber int
	Reason     string
	Data       []string
}

// ImportResult contains the outcome of importing one CSV file.
type ImportResult struct {
	RunID       string
	TableKey    string
	FileName    string
	TotalRows   int // non-blank data lines after the header
	Inserted    int
	Updated     int
	Unchanged   int
	Skipped     int
	SkippedRows []SkippedRow
	BytesRead   int64
	Duration    time.Duration
}

// Outcome classifies a single upsert.
type Outcome int

const (
	Unchanged Outcome = iota
	Inserted
	Updated
)

func (o Outcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return "unchanged"
	}
}

func (r *ImportResult) count(o Outcome) {
	switch o {
	case Inserted:
		r.Inserted++
	case Updated:
		r.Updated++
	default:
		r.Unchanged++
	}
}
