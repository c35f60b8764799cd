package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radkit/radpersonel/cache"
	"github.com/radkit/radpersonel/repo"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/sheets/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestStore(t *testing.T) (*repo.Store, *memory.Client) {
	t.Helper()
	client := memory.NewClient()
	client.Seed(sheets.WorkbookPersonnel, sheets.SheetPersonnel, [][]string{
		{repo.ColTC, repo.ColFullName, repo.ColUnit, repo.ColTitle, repo.ColServiceCls,
			repo.ColHireDate, repo.ColPhone, repo.ColEmail, repo.ColStatus,
			repo.ColExitDate, repo.ColExitReason, repo.ColDocLinks},
		{"10000000146", "AYŞE YILMAZ", "Radyoloji", "Tekniker", "SHS",
			"01.02.2020", "05321234567", "ayse@example.com", "Aktif", "", "", ""},
	})
	return repo.NewStore(client, cache.New(), time.Minute, zap.NewNop()), client
}

// =============================================================================
// READ-THROUGH CACHING
// =============================================================================

func TestRecords_ServesFromCacheUntilInvalidated(t *testing.T) {
	// GIVEN: A cached snapshot
	// WHEN: The underlying sheet changes without an invalidation
	// THEN: Reads keep serving the snapshot until the workbook is flushed

	store, client := newTestStore(t)
	ctx := context.Background()

	first, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)
	require.Len(t, first, 1)

	// Out-of-band change, e.g. another client editing the sheet.
	client.Seed(sheets.WorkbookPersonnel, sheets.SheetPersonnel, [][]string{
		{repo.ColTC, repo.ColFullName, repo.ColStatus},
		{"10000000146", "AYŞE YILMAZ", "Aktif"},
		{"10000000222", "MEHMET KAYA", "Aktif"},
	})

	cached, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)
	assert.Len(t, cached, 1, "snapshot must survive until invalidation")

	store.InvalidateWorkbook(sheets.WorkbookPersonnel)
	fresh, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestAppendRow_InvalidatesWorkbook(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	_, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)

	err = store.AppendRow(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel,
		[]string{"10000000222", "MEHMET KAYA", "Radyoloji", "Tekniker", "SHS",
			"15.04.2021", "05421234567", "mehmet@example.com", "Aktif", "", "", ""})
	require.NoError(t, err)

	records, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)
	assert.Len(t, records, 2, "append must be visible on the next read")
}

// =============================================================================
// UPDATE SEMANTICS
// =============================================================================

func TestUpdateByID_WritesChangedColumns(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.UpdateByID(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel,
		"10000000146", map[string]string{
			repo.ColFullName: "AYŞE DEMİR",
			"Bilinmeyen":     "x", // unknown column: logged and skipped
		})
	require.NoError(t, err)

	records, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "AYŞE DEMİR", records[0][repo.ColFullName])
	assert.Equal(t, "Aktif", records[0][repo.ColStatus], "untouched column keeps its value")
}

func TestUpdateByID_UnknownRowFails(t *testing.T) {
	store, _ := newTestStore(t)
	err := store.UpdateByID(context.Background(), sheets.WorkbookPersonnel, sheets.SheetPersonnel,
		"99999999999", map[string]string{repo.ColStatus: "Pasif"})
	assert.Error(t, err)
}

func TestDeleteRowByID(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	err := store.DeleteRowByID(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel, "10000000146")
	require.NoError(t, err)

	records, err := store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	require.NoError(t, err)
	assert.Empty(t, records)
}

// =============================================================================
// PERSONNEL REPOSITORY RULES
// =============================================================================

func TestPersonnelCreate_RejectsDuplicateTC(t *testing.T) {
	store, _ := newTestStore(t)
	people := repo.NewPersonnel(store)

	err := people.Create(context.Background(), repo.Personnel{
		TC: "10000000146", FullName: "Başka Biri",
	})
	assert.Error(t, err)
}

func TestPersonnelCreate_UppercasesName(t *testing.T) {
	store, _ := newTestStore(t)
	people := repo.NewPersonnel(store)
	ctx := context.Background()

	require.NoError(t, people.Create(ctx, repo.Personnel{
		TC: "10000000214", FullName: "ali işık",
	}))

	p, err := people.GetByTC(ctx, "10000000214")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "ALİ IŞIK", p.FullName, "names are stored in Turkish upper case")
	assert.Equal(t, repo.StatusActive, p.Status, "status defaults to active")
}

func TestPersonnelUpdate_TCImmutable(t *testing.T) {
	store, _ := newTestStore(t)
	people := repo.NewPersonnel(store)

	err := people.Update(context.Background(), "10000000146",
		map[string]string{repo.ColTC: "10000000245"})
	assert.Error(t, err)
}

// =============================================================================
// DEVICE / RKE ROW ACCESS
// =============================================================================

func TestDeviceRepo_AppendAndList(t *testing.T) {
	store, client := newTestStore(t)
	client.Seed(sheets.WorkbookDevice, repo.SheetFaultTickets, [][]string{
		{"Ariza_No", "Cihaz", "Durum"},
	})
	devices := repo.NewDevice(store)
	ctx := context.Background()

	require.NoError(t, devices.Append(ctx, repo.SheetFaultTickets, []string{"A-1", "MR-01", "Açık"}))
	require.NoError(t, devices.Update(ctx, repo.SheetFaultTickets, "A-1",
		map[string]string{"Durum": "Kapalı"}))

	tickets, err := devices.FaultTickets(ctx)
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	assert.Equal(t, "Kapalı", tickets[0]["Durum"])
}

func TestRKERepo_Measurements(t *testing.T) {
	store, client := newTestStore(t)
	client.Seed(sheets.WorkbookRKE, repo.SheetRKEMeasure, [][]string{
		{"Olcum_No", "TC_Kimlik", "Doz"},
		{"O-1", "10000000146", "0,12"},
	})
	rke := repo.NewRKE(store)

	rows, err := rke.Measurements(context.Background())
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "0,12", rows[0]["Doz"])
}

func TestPersonnelDeactivate(t *testing.T) {
	store, _ := newTestStore(t)
	people := repo.NewPersonnel(store)
	ctx := context.Background()

	require.NoError(t, people.Deactivate(ctx, "10000000146", "01.06.2025", "Tayin"))

	p, err := people.GetByTC(ctx, "10000000146")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, repo.StatusPassive, p.Status)
	assert.Equal(t, "Tayin", p.ExitReason)
}
