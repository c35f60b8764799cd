package repo

import (
	"context"

	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// PUANTAJ REPOSITORY - monthly timesheet rows feeding the accrual engine
// =============================================================================

type PuantajRepo struct {
	store *Store
}

func NewPuantaj(store *Store) *PuantajRepo {
	return &PuantajRepo{store: store}
}

// Rows returns every timesheet row. The accrual engine filters by year
// and month itself; header aliases are its concern, not ours.
func (r *PuantajRepo) Rows(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPuantaj)
}

// Append records one (personnel, year, month) timesheet row. Only HR
// roles reach this path; authorization gates the form, not the repo.
func (r *PuantajRepo) Append(ctx context.Context, values []string) error {
	return r.store.AppendRow(ctx, sheets.WorkbookPersonnel, sheets.SheetPuantaj, values)
}

// Update rewrites the changed columns of the row identified by id
// (the forms key puantaj rows by an opaque row id in the first column).
func (r *PuantajRepo) Update(ctx context.Context, id string, changes map[string]string) error {
	return r.store.UpdateByID(ctx, sheets.WorkbookPersonnel, sheets.SheetPuantaj, id, changes)
}
