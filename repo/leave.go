package repo

import (
	"context"

	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// LEAVE REPOSITORY - read access for the leave forms
// =============================================================================
// The post/cancel write path lives in the leave package (the ledger); the
// forms only need cached listings here.

// izin_giris columns.
const (
	LeaveColID        = "Kayit_No"
	LeaveColClass     = "Hizmet_Sinifi"
	LeaveColTC        = "TC_Kimlik"
	LeaveColName      = "Adi_Soyadi"
	LeaveColType      = "Izin_Turu"
	LeaveColStart     = "Baslangic"
	LeaveColDays      = "Gun_Sayisi"
	LeaveColEnd       = "Bitis"
	LeaveColStatus    = "Durum"
)

// izin_bilgi balance columns.
const (
	BalanceColTC      = "TC_Kimlik"
	BalanceColYillik  = "yillik_kullanilan"
	BalanceColSua     = "sua_kullanilan"
	BalanceColRapor   = "rapor_mazeret_top"
)

// Leave status values.
const (
	LeaveStatusActive    = "Aktif"
	LeaveStatusCancelled = "İptal Edildi"
)

type LeaveRepo struct {
	store *Store
}

func NewLeave(store *Store) *LeaveRepo {
	return &LeaveRepo{store: store}
}

// Records returns the leave-record rows.
func (r *LeaveRepo) Records(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetLeaveRecords)
}

// Balances returns the per-personnel balance rows.
func (r *LeaveRepo) Balances(ctx context.Context) ([]sheets.Record, error) {
	return r.store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetLeaveBalance)
}

// BalanceFor returns the balance row of one personnel, or nil.
func (r *LeaveRepo) BalanceFor(ctx context.Context, tc string) (sheets.Record, error) {
	balances, err := r.Balances(ctx)
	if err != nil {
		return nil, err
	}
	for _, rec := range balances {
		if rec[BalanceColTC] == tc {
			return rec, nil
		}
	}
	return nil, nil
}
