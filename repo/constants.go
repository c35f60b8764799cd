package repo

import (
	"context"
	"strings"
	"time"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/turkish"
)

// =============================================================================
// CONSTANTS REPOSITORY - the Sabitler key-value sheet
// =============================================================================

// Sabitler columns.
const (
	ColKod        = "Kod"
	ColMenuItem   = "MenuEleman"
	ColDesc       = "Aciklama"
)

// Well-known Kod values.
const (
	KodDriveID = "Sistem_DriveID"
	KodHoliday = "Resmi_Tatil"
)

type ConstantsRepo struct {
	store *Store
}

func NewConstants(store *Store) *ConstantsRepo {
	return &ConstantsRepo{store: store}
}

// MenuItems returns every MenuEleman value registered under kod, in sheet
// order. The forms use these to populate combo boxes.
func (r *ConstantsRepo) MenuItems(ctx context.Context, kod string) ([]string, error) {
	records, err := r.store.Records(ctx, sheets.WorkbookConstants, sheets.SheetConstants)
	if err != nil {
		return nil, err
	}
	var items []string
	for _, rec := range records {
		if rec[ColKod] == kod && rec[ColMenuItem] != "" {
			items = append(items, rec[ColMenuItem])
		}
	}
	return items, nil
}

// Value returns the single MenuEleman value for kod.
func (r *ConstantsRepo) Value(ctx context.Context, kod string) (string, error) {
	items, err := r.MenuItems(ctx, kod)
	if err != nil {
		return "", err
	}
	if len(items) == 0 {
		return "", apperr.New(apperr.SheetMissing, "Sabitler içinde "+kod+" yok")
	}
	return items[0], nil
}

// DriveFolderID resolves the Drive folder for uploads.
func (r *ConstantsRepo) DriveFolderID(ctx context.Context) (string, error) {
	return r.Value(ctx, KodDriveID)
}

// Holidays returns the official holiday calendar maintained in Sabitler
// under Kod == "Resmi_Tatil" with dates written as DD.MM.YYYY. Unparseable
// rows are skipped.
func (r *ConstantsRepo) Holidays(ctx context.Context) (turkish.HolidaySet, error) {
	items, err := r.MenuItems(ctx, KodHoliday)
	if err != nil {
		return nil, err
	}
	var dates []time.Time
	for _, item := range items {
		d, err := time.Parse("02.01.2006", strings.TrimSpace(item))
		if err != nil {
			continue
		}
		dates = append(dates, d)
	}
	return turkish.NewHolidaySet(dates...), nil
}

// RoleRules returns the raw Rol_Yetkileri rows for the authorization
// loader.
func (r *ConstantsRepo) RoleRules(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookConstants, sheets.SheetRoleRules)
}
