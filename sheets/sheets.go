/*
Package sheets defines the tabular-store abstraction over workbook services.

PURPOSE:
  All persistent data lives in spreadsheet workbooks: personnel records,
  device inventory, timesheets, leave ledgers, the constants sheet and the
  user table. This package is the seam between domain code and whichever
  workbook service backs it.

CONTRACTS:
  - Header row is row 1. GetAllRecords maps header -> cell string per row.
  - Every returned value is a string; callers coerce numerics themselves.
  - Writes are NOT transactional across cells. A multi-cell update that
    fails halfway leaves the written cells committed.
  - Rate-limit failures surface as StoreTransient (retryable); network
    loss as ConnectionError; credential refresh failure as AuthExpired.
  - Row and column indexes are 1-based, matching the service convention.

IMPLEMENTATIONS:
  - sheets/gsheets: Google Sheets + Drive over OAuth2 (production)
  - sheets/xlsx:    excelize-backed local workbook (offline mode)
  - sheets/memory:  in-memory fake (unit tests)

SEE ALSO:
  - repo/: cached repositories built on these interfaces
*/
package sheets

import "context"

// =============================================================================
// WORKBOOK KEYS AND SHEET NAMES
// =============================================================================

// Recognized workbook keys. A Client resolves these to concrete documents.
const (
	WorkbookPersonnel = "personnel"
	WorkbookDevice    = "device"
	WorkbookRKE       = "rke"
	WorkbookConstants = "constants"
	WorkbookUser      = "user"
)

// Sheet names within the workbooks.
const (
	SheetPersonnel    = "Personel"
	SheetPuantaj      = "FHSZ_Puantaj"
	SheetLeaveRecords = "izin_giris"
	SheetLeaveBalance = "izin_bilgi"
	SheetConstants    = "Sabitler"
	SheetRoleRules    = "Rol_Yetkileri"
	SheetLogs         = "Loglar"
	SheetUserLogin    = "user_login"
)

// =============================================================================
// CORE TYPES
// =============================================================================

// Record is one data row keyed by the header row. All values are strings.
type Record map[string]string

// CellRef addresses a single cell. Row and Col are 1-based.
type CellRef struct {
	Row int
	Col int
}

// =============================================================================
// INTERFACES
// =============================================================================

// Client resolves workbook keys to open workbooks.
type Client interface {
	// Open resolves a named workbook. Fails with ConnectionError on
	// network loss or AuthExpired when credentials cannot be refreshed.
	Open(ctx context.Context, workbookKey string) (Workbook, error)
}

// Workbook is a handle to one spreadsheet document.
type Workbook interface {
	Key() string

	// Sheet returns a worksheet by name. Fails with SheetMissing.
	Sheet(name string) (Worksheet, error)
}

// Worksheet is a handle to one sheet of a workbook. Every call is a
// suspension point: implementations may perform a network RPC.
type Worksheet interface {
	Name() string

	// GetAllRecords returns data rows (row 2 onward) keyed by the header
	// row. Trailing empty rows are omitted.
	GetAllRecords(ctx context.Context) ([]Record, error)

	// HeaderRow returns row 1 as a slice of column names.
	HeaderRow(ctx context.Context) ([]string, error)

	// AppendRow appends values after the last data row.
	AppendRow(ctx context.Context, values []string) error

	// Find locates the first cell whose content equals query exactly,
	// scanning row-major. Returns nil when no cell matches.
	Find(ctx context.Context, query string) (*CellRef, error)

	// FindInColumn locates the first cell of one column (1-based) whose
	// content equals query exactly. Returns nil when no cell matches.
	// Use this when the same value may legitimately appear in other
	// columns (names, roles, free text).
	FindInColumn(ctx context.Context, col int, query string) (*CellRef, error)

	// RowValues returns the cells of a row (1-based index).
	RowValues(ctx context.Context, row int) ([]string, error)

	// UpdateCell writes a single cell (1-based row and column).
	UpdateCell(ctx context.Context, row, col int, value string) error

	// DeleteRow removes a row (1-based index). Rows below shift up.
	DeleteRow(ctx context.Context, row int) error
}

// =============================================================================
// HELPERS SHARED BY IMPLEMENTATIONS
// =============================================================================

// ColumnIndex returns the 1-based index of name within header, or 0 when
// the column does not exist.
func ColumnIndex(header []string, name string) int {
	for i, h := range header {
		if h == name {
			return i + 1
		}
	}
	return 0
}

// RecordsFromRows converts a raw [header, data...] row matrix into Records.
// Short rows are padded with empty strings, extra cells are ignored.
func RecordsFromRows(rows [][]string) []Record {
	if len(rows) < 2 {
		return nil
	}
	header := rows[0]
	records := make([]Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		rec := make(Record, len(header))
		empty := true
		for i, name := range header {
			if name == "" {
				continue
			}
			v := ""
			if i < len(row) {
				v = row[i]
			}
			if v != "" {
				empty = false
			}
			rec[name] = v
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records
}
