package repo

import (
	"context"

	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// DEVICE / RKE REPOSITORIES
// =============================================================================
// Thin row-level access: the device and RKE forms are column-driven, so
// these repositories hand back raw records and route writes through the
// shared update path.

// Device workbook sheet names.
const (
	SheetDevices      = "Cihazlar"
	SheetFaultTickets = "Arizalar"
	SheetCalibration  = "Kalibrasyon"
	SheetMaintenance  = "Bakim"
	SheetRKEMeasure   = "RKE_Olcum"
)

type DeviceRepo struct {
	store *Store
}

func NewDevice(store *Store) *DeviceRepo {
	return &DeviceRepo{store: store}
}

func (r *DeviceRepo) Devices(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookDevice, SheetDevices)
}

func (r *DeviceRepo) FaultTickets(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookDevice, SheetFaultTickets)
}

func (r *DeviceRepo) CalibrationPlan(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookDevice, SheetCalibration)
}

func (r *DeviceRepo) MaintenancePlan(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookDevice, SheetMaintenance)
}

func (r *DeviceRepo) Append(ctx context.Context, sheet string, values []string) error {
	return r.store.AppendRow(ctx, sheets.WorkbookDevice, sheet, values)
}

func (r *DeviceRepo) Update(ctx context.Context, sheet, id string, changes map[string]string) error {
	return r.store.UpdateByID(ctx, sheets.WorkbookDevice, sheet, id, changes)
}

type RKERepo struct {
	store *Store
}

func NewRKE(store *Store) *RKERepo {
	return &RKERepo{store: store}
}

// Measurements returns the radiation-exposure measurement rows.
func (r *RKERepo) Measurements(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookRKE, SheetRKEMeasure)
}

func (r *RKERepo) Append(ctx context.Context, values []string) error {
	return r.store.AppendRow(ctx, sheets.WorkbookRKE, SheetRKEMeasure, values)
}

func (r *RKERepo) Update(ctx context.Context, id string, changes map[string]string) error {
	return r.store.UpdateByID(ctx, sheets.WorkbookRKE, SheetRKEMeasure, id, changes)
}
