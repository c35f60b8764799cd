/*
Package leave implements the leave-balance ledger.

PURPOSE:
  Posting a leave combines two writes against a store with no cross-cell
  atomicity: an append to the izin_giris record sheet and a cell-level
  increment on the izin_bilgi balance sheet. Cancelling reverses both:
  the record's status flips to "İptal Edildi" and the balance is credited
  back, bounded at zero.

CONSISTENCY:
  Append-then-update, accepting that a crash between the two leaves a
  record without its debit. The operation reports success at the record
  level and flags the inconsistency in the logs; reconciliation is an
  operator concern. Cancel is idempotent: re-cancelling an already
  cancelled record is a no-op success, so a retry after a half-applied
  cancel cannot double-credit.

TYPE -> COLUMN:
  An explicit mapping, not substring matching. Annual leave debits
  yillik_kullanilan, şua leave debits sua_kullanilan, everything else
  (rapor, mazeret, unknown labels) debits rapor_mazeret_top.

SEE ALSO:
  - repo/leave.go: cached read access for the forms
  - turkish/workdays.go: the end-date rule
*/
package leave

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/repo"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/turkish"
)

// DateLayout is how the sheets write dates.
const DateLayout = "02.01.2006"

// =============================================================================
// RECORD
// =============================================================================

// Record is one leave entry as posted to izin_giris.
type Record struct {
	ID           string
	ServiceClass string
	TC           string
	FullName     string
	Type         string
	Start        time.Time
	DayCount     int
	End          time.Time
	Status       string
}

// =============================================================================
// TYPE -> BALANCE COLUMN
// =============================================================================

var typeColumns = map[string]string{
	"YILLIK":      repo.BalanceColYillik,
	"YILLIK İZİN": repo.BalanceColYillik,
	"ŞUA":         repo.BalanceColSua,
	"SUA":         repo.BalanceColSua,
	"ŞUA İZNİ":    repo.BalanceColSua,
	"SUA İZNİ":    repo.BalanceColSua,
}

// ColumnForType maps a leave type label to its balance column. Unknown
// labels fall through to the rapor/mazeret aggregate, so a novel type
// name can never debit the wrong dedicated counter.
func ColumnForType(leaveType string) string {
	key := turkish.Upper(strings.TrimSpace(leaveType))
	if col, ok := typeColumns[key]; ok {
		return col
	}
	return repo.BalanceColRapor
}

// =============================================================================
// LEDGER
// =============================================================================

type Ledger struct {
	store    *repo.Store
	holidays turkish.HolidayCalendar
	log      *zap.Logger
}

func NewLedger(store *repo.Store, holidays turkish.HolidayCalendar, log *zap.Logger) *Ledger {
	if log == nil {
		log = zap.NewNop()
	}
	return &Ledger{store: store, holidays: holidays, log: log}
}

// PostLeave validates, appends the record row, then debits the balance.
// The returned record carries the generated id and computed end date.
// A balance failure after a successful append still returns success;
// the inconsistency is logged for reconciliation.
func (l *Ledger) PostLeave(ctx context.Context, rec Record) (*Record, error) {
	if rec.DayCount < 1 {
		return nil, apperr.New(apperr.InvalidInput, "Gün sayısı en az 1 olmalıdır.")
	}
	if rec.Start.IsZero() {
		return nil, apperr.New(apperr.InvalidInput, "Başlangıç tarihi geçersiz.")
	}
	if strings.TrimSpace(rec.TC) == "" {
		return nil, apperr.New(apperr.InvalidInput, "T.C. kimlik numarası boş olamaz.")
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.End = turkish.BusinessDayEnd(rec.Start, rec.DayCount, l.holidays)
	rec.Status = repo.LeaveStatusActive

	err := l.store.AppendRow(ctx, sheets.WorkbookPersonnel, sheets.SheetLeaveRecords, []string{
		rec.ID,
		rec.ServiceClass,
		rec.TC,
		rec.FullName,
		rec.Type,
		rec.Start.Format(DateLayout),
		strconv.Itoa(rec.DayCount),
		rec.End.Format(DateLayout),
		rec.Status,
	})
	if err != nil {
		return nil, err
	}

	if err := l.adjustBalance(ctx, rec.TC, ColumnForType(rec.Type), rec.DayCount); err != nil {
		// The record row is already committed. Reported successful,
		// flagged for reconciliation.
		l.log.Error("leave posted but balance update failed; reconciliation required",
			zap.String("record_id", rec.ID),
			zap.String("tc", rec.TC),
			zap.Int("days", rec.DayCount),
			zap.Error(err))
	}
	return &rec, nil
}

// CancelLeave marks the record cancelled and credits the balance back.
// Idempotent: cancelling an already-cancelled record succeeds without
// touching the balance again.
func (l *Ledger) CancelLeave(ctx context.Context, recordID, tc, leaveType string, dayCount int) error {
	ws, err := l.store.Worksheet(ctx, sheets.WorkbookPersonnel, sheets.SheetLeaveRecords)
	if err != nil {
		return err
	}
	ref, err := ws.Find(ctx, recordID)
	if err != nil {
		return err
	}
	if ref == nil {
		return apperr.New(apperr.InvalidInput, "İzin kaydı bulunamadı: "+recordID)
	}

	header, err := ws.HeaderRow(ctx)
	if err != nil {
		return err
	}
	statusCol := sheets.ColumnIndex(header, repo.LeaveColStatus)
	if statusCol == 0 {
		return apperr.New(apperr.SheetMissing, "izin_giris içinde Durum sütunu yok")
	}

	row, err := ws.RowValues(ctx, ref.Row)
	if err != nil {
		return err
	}
	if statusCol-1 < len(row) && row[statusCol-1] == repo.LeaveStatusCancelled {
		return nil // already cancelled
	}

	if err := ws.UpdateCell(ctx, ref.Row, statusCol, repo.LeaveStatusCancelled); err != nil {
		return err
	}
	l.store.InvalidateWorkbook(sheets.WorkbookPersonnel)

	if err := l.adjustBalance(ctx, tc, ColumnForType(leaveType), -dayCount); err != nil {
		l.log.Error("leave cancelled but balance credit failed; reconciliation required",
			zap.String("record_id", recordID),
			zap.String("tc", tc),
			zap.Int("days", dayCount),
			zap.Error(err))
	}
	return nil
}

// adjustBalance reads the current counter (empty cell counts as 0) and
// writes current+delta, never below zero.
func (l *Ledger) adjustBalance(ctx context.Context, tc, column string, delta int) error {
	ws, err := l.store.Worksheet(ctx, sheets.WorkbookPersonnel, sheets.SheetLeaveBalance)
	if err != nil {
		return err
	}
	ref, err := ws.Find(ctx, tc)
	if err != nil {
		return err
	}
	if ref == nil {
		return apperr.New(apperr.InvalidInput, "Bakiye satırı bulunamadı: "+tc)
	}
	header, err := ws.HeaderRow(ctx)
	if err != nil {
		return err
	}
	col := sheets.ColumnIndex(header, column)
	if col == 0 {
		return apperr.New(apperr.SheetMissing, "izin_bilgi içinde "+column+" sütunu yok")
	}

	row, err := ws.RowValues(ctx, ref.Row)
	if err != nil {
		return err
	}
	current := 0
	if col-1 < len(row) {
		if n, err := strconv.Atoi(strings.TrimSpace(row[col-1])); err == nil {
			current = n
		}
	}

	next := current + delta
	if next < 0 {
		next = 0
	}
	if err := ws.UpdateCell(ctx, ref.Row, col, strconv.Itoa(next)); err != nil {
		return err
	}
	l.store.InvalidateWorkbook(sheets.WorkbookPersonnel)
	return nil
}
