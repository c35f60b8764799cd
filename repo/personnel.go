package repo

import (
	"context"
	"strings"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/turkish"
)

// =============================================================================
// PERSONNEL REPOSITORY
// =============================================================================

// Personnel sheet columns.
const (
	ColTC          = "TC_Kimlik"
	ColFullName    = "Adi_Soyadi"
	ColUnit        = "Birim"
	ColTitle       = "Unvan"
	ColServiceCls  = "Hizmet_Sinifi"
	ColHireDate    = "Ise_Baslama"
	ColPhone       = "Telefon"
	ColEmail       = "Eposta"
	ColStatus      = "Durum"
	ColExitDate    = "Ayrilis_Tarihi"
	ColExitReason  = "Ayrilis_Nedeni"
	ColDocLinks    = "Belgeler"
)

// Status values.
const (
	StatusActive  = "Aktif"
	StatusPassive = "Pasif"
)

// Personnel is one personnel row. All fields are the sheet's strings.
type Personnel struct {
	TC           string
	FullName     string
	Unit         string
	Title        string
	ServiceClass string
	HireDate     string
	Phone        string
	Email        string
	Status       string
	ExitDate     string
	ExitReason   string
	DocLinks     string
}

type PersonnelRepo struct {
	store *Store
}

func NewPersonnel(store *Store) *PersonnelRepo {
	return &PersonnelRepo{store: store}
}

func personnelFromRecord(rec sheets.Record) Personnel {
	return Personnel{
		TC:           strings.TrimSpace(rec[ColTC]),
		FullName:     rec[ColFullName],
		Unit:         rec[ColUnit],
		Title:        rec[ColTitle],
		ServiceClass: rec[ColServiceCls],
		HireDate:     rec[ColHireDate],
		Phone:        rec[ColPhone],
		Email:        rec[ColEmail],
		Status:       rec[ColStatus],
		ExitDate:     rec[ColExitDate],
		ExitReason:   rec[ColExitReason],
		DocLinks:     rec[ColDocLinks],
	}
}

// List returns all personnel rows.
func (r *PersonnelRepo) List(ctx context.Context) ([]Personnel, error) {
	records, err := r.store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	if err != nil {
		return nil, err
	}
	out := make([]Personnel, 0, len(records))
	for _, rec := range records {
		out = append(out, personnelFromRecord(rec))
	}
	return out, nil
}

// GetByTC returns the personnel with the given identity number, or nil.
func (r *PersonnelRepo) GetByTC(ctx context.Context, tc string) (*Personnel, error) {
	records, err := r.store.Records(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel)
	if err != nil {
		return nil, err
	}
	tc = strings.TrimSpace(tc)
	for _, rec := range records {
		if strings.TrimSpace(rec[ColTC]) == tc {
			p := personnelFromRecord(rec)
			return &p, nil
		}
	}
	return nil, nil
}

// Create appends a new personnel row. The identity number must validate
// and must not already exist; once stored it is immutable.
func (r *PersonnelRepo) Create(ctx context.Context, p Personnel) error {
	if ok, msg := turkish.ValidateTCKN(p.TC); !ok {
		return apperr.New(apperr.InvalidInput, msg)
	}
	existing, err := r.GetByTC(ctx, p.TC)
	if err != nil {
		return err
	}
	if existing != nil {
		return apperr.New(apperr.InvalidInput, "Bu T.C. kimlik numarası zaten kayıtlı.")
	}
	if p.Status == "" {
		p.Status = StatusActive
	}
	name := turkish.Upper(p.FullName)
	return r.store.AppendRow(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel, []string{
		p.TC, name, p.Unit, p.Title, p.ServiceClass, p.HireDate,
		p.Phone, p.Email, p.Status, p.ExitDate, p.ExitReason, p.DocLinks,
	})
}

// Update writes the changed columns of the row keyed by tc. The identity
// number itself is immutable and cannot appear in changes.
func (r *PersonnelRepo) Update(ctx context.Context, tc string, changes map[string]string) error {
	if _, ok := changes[ColTC]; ok {
		return apperr.New(apperr.InvalidInput, "T.C. kimlik numarası değiştirilemez.")
	}
	return r.store.UpdateByID(ctx, sheets.WorkbookPersonnel, sheets.SheetPersonnel, tc, changes)
}

// Deactivate marks the personnel passive with an exit date and reason.
func (r *PersonnelRepo) Deactivate(ctx context.Context, tc, exitDate, reason string) error {
	return r.Update(ctx, tc, map[string]string{
		ColStatus:     StatusPassive,
		ColExitDate:   exitDate,
		ColExitReason: reason,
	})
}
