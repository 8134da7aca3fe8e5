// Package core imports race schedule CSV files into the database and serves
// the stored records back.
//
// # Table Registry
//
// Import tables are registered at init time by package tables using
// [Register]. Each [TableDefinition] lists its positional columns and the
// conflict key the upsert targets:
//
//	core.Register(core.TableDefinition{
//	    Info: core.TableInfo{Key: "place", Label: "Places", Order: 1, ConflictKey: []string{"id"}},
//	    FieldSpecs: []core.FieldSpec{
//	        {Name: "id", Type: core.FieldText, Required: true},
//	        {Name: "date_time", Type: core.FieldDateTime, Required: true},
//	    },
//	})
//
// # Import
//
// [Service.ImportFile] and [Service.ImportReader] stream a file line by
// line:
//
//  1. Bytes are decoded (UTF-8 with BOM removal, or Shift_JIS) and counted.
//  2. The header line is skipped, as are blank lines.
//  3. Each line is split with [SplitLine] and converted by its field specs.
//     Lines that fail conversion are skipped and reported.
//  4. Every other line is upserted in file order inside one transaction.
//     The upsert only rewrites a row whose non-key values changed, so
//     re-importing a file leaves it untouched.
//
// [Service.PreviewFile] runs the same steps and rolls back.
//
// # Error Handling
//
// Technical errors are mapped to coded messages using [MapError]:
//
//   - DB001, DB003-DB006: database errors
//   - ID001-ID005: identifier errors
//   - VAL001-VAL004: cell conversion errors
//   - FILE001-FILE004: file errors
//   - IMP001-IMP004: import errors
//
// # Import History
//
// Every run is written to the import_run table with its counters and up to
// 100 skipped rows; see [Service.ImportHistory].
package core
