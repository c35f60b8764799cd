/*
dto.go - request and response bodies for the HTTP facade

PURPOSE:
  Decouples the JSON contract from the domain types. Field names follow
  the sheet vocabulary (kullanici_adi, gun_sayisi) so the desktop shell
  and the sheets speak the same dialect.

VALIDATION:
  Request types carry validator tags; the custom tckn and trphone rules
  are registered in handlers.go against the turkish package.

SEE ALSO:
  - handlers.go: uses these types
  - server.go: route wiring
*/
package api

// =============================================================================
// SESSION
// =============================================================================

// LoginRequest is the credential pair from the login form.
type LoginRequest struct {
	Username string `json:"kullanici_adi" validate:"required"`
	Password string `json:"sifre" validate:"required"`
}

// LoginResponse reports the protocol outcome. Role and FullName are set
// when the user exists.
type LoginResponse struct {
	Outcome  string `json:"sonuc"`
	Role     string `json:"rol,omitempty"`
	FullName string `json:"adi_soyadi,omitempty"`
}

// PasswordResetRequest re-authenticates with the current password, then
// applies the new one.
type PasswordResetRequest struct {
	Username        string `json:"kullanici_adi" validate:"required"`
	CurrentPassword string `json:"mevcut_sifre" validate:"required"`
	NewPassword     string `json:"yeni_sifre" validate:"required"`
	Confirm         string `json:"yeni_sifre_tekrar" validate:"required"`
}

// =============================================================================
// PERSONNEL
// =============================================================================

// PersonnelDTO is one Personel row in API responses.
type PersonnelDTO struct {
	TC           string `json:"tc_kimlik"`
	FullName     string `json:"adi_soyadi"`
	Unit         string `json:"birim"`
	Title        string `json:"unvan"`
	ServiceClass string `json:"hizmet_sinifi"`
	HireDate     string `json:"ise_giris"`
	Phone        string `json:"telefon"`
	Email        string `json:"eposta"`
	Status       string `json:"durum"`
}

// CreatePersonnelRequest is the new-personnel form payload.
type CreatePersonnelRequest struct {
	TC           string `json:"tc_kimlik" validate:"required,tckn"`
	FullName     string `json:"adi_soyadi" validate:"required"`
	Unit         string `json:"birim"`
	Title        string `json:"unvan"`
	ServiceClass string `json:"hizmet_sinifi"`
	HireDate     string `json:"ise_giris"`
	Phone        string `json:"telefon" validate:"omitempty,trphone"`
	Email        string `json:"eposta" validate:"omitempty,email"`
}

// =============================================================================
// ENTITLEMENT REPORTS
// =============================================================================

// AnnualRowDTO is one personnel's yearly entitlement position.
type AnnualRowDTO struct {
	TC              string `json:"tc_kimlik"`
	FullName        string `json:"adi_soyadi"`
	ServiceClass    string `json:"hizmet_sinifi"`
	TotalHours      string `json:"toplam_saat"`
	PresentDays     int    `json:"calisilan_gun"`
	LeaveDays       int    `json:"izinli_gun"`
	CumulativeHours string `json:"kumulatif_saat"`
	EntitledDays    int    `json:"hak_edilen_gun"`
}

// MonthlyRowDTO is one personnel's running position at a month.
type MonthlyRowDTO struct {
	TC              string `json:"tc_kimlik"`
	FullName        string `json:"adi_soyadi"`
	Month           int    `json:"donem"`
	MonthHours      string `json:"ay_saat"`
	CumulativeHours string `json:"kumulatif_saat"`
	EntitledDays    int    `json:"hak_edilen_gun"`
}

// =============================================================================
// LEAVE
// =============================================================================

// PostLeaveRequest is the leave entry form payload. Start uses the sheet
// date layout DD.MM.YYYY.
type PostLeaveRequest struct {
	ServiceClass string `json:"hizmet_sinifi"`
	TC           string `json:"tc_kimlik" validate:"required,tckn"`
	FullName     string `json:"adi_soyadi" validate:"required"`
	Type         string `json:"izin_turu" validate:"required"`
	Start        string `json:"baslangic" validate:"required"`
	DayCount     int    `json:"gun_sayisi" validate:"required,min=1"`
}

// LeaveDTO echoes the committed record.
type LeaveDTO struct {
	ID       string `json:"kayit_no"`
	TC       string `json:"tc_kimlik"`
	Type     string `json:"izin_turu"`
	Start    string `json:"baslangic"`
	DayCount int    `json:"gun_sayisi"`
	End      string `json:"bitis"`
	Status   string `json:"durum"`
}

// CancelLeaveRequest carries what the cancel needs beyond the record id.
type CancelLeaveRequest struct {
	TC       string `json:"tc_kimlik" validate:"required"`
	Type     string `json:"izin_turu" validate:"required"`
	DayCount int    `json:"gun_sayisi" validate:"required,min=1"`
}

// BalanceDTO is one izin_bilgi row.
type BalanceDTO struct {
	TC     string `json:"tc_kimlik"`
	Yillik string `json:"yillik_kullanilan"`
	Sua    string `json:"sua_kullanilan"`
	Rapor  string `json:"rapor_mazeret_top"`
}

// ErrorResponse mirrors the operator notification contract.
type ErrorResponse struct {
	Title    string `json:"baslik"`
	Message  string `json:"mesaj"`
	Severity string `json:"onem"`
}
