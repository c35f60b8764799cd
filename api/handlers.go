/*
handlers.go - HTTP handlers for the personnel engine

PURPOSE:
  Exposes the engine to the desktop shell over REST. Handles JSON
  serialization, input validation, and delegates to the domain packages.

ENDPOINTS:
  Session:
    POST   /api/login                    Authenticate
    POST   /api/password-reset           Forced password change

  Personnel:
    GET    /api/personnel                List all personnel
    GET    /api/personnel/{tc}           One personnel by identity number
    POST   /api/personnel                Create personnel

  Entitlement:
    GET    /api/fhsz/annual?year=        Annual summary
    GET    /api/fhsz/monthly?year=&month= Monthly cumulative

  Leave:
    POST   /api/leaves                   Post a leave entry
    DELETE /api/leaves/{id}              Cancel a leave entry
    GET    /api/leaves/balance/{tc}      Balance counters for one personnel

ERROR HANDLING:
  Every failure is classified (apperr) and rendered as the operator
  notification body: title, Turkish message, severity. The HTTP status
  follows the kind: invalid input 400, expired auth 401, missing
  sheet/file 404, transient or connectivity 503, everything else 500.

AUDIT:
  Logins and leave mutations append to the local audit log. Audit
  failures never fail the operation.

SEE ALSO:
  - dto.go: request/response bodies
  - server.go: router and middleware
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/audit"
	"github.com/radkit/radpersonel/fhsz"
	"github.com/radkit/radpersonel/leave"
	"github.com/radkit/radpersonel/repo"
	"github.com/radkit/radpersonel/session"
	"github.com/radkit/radpersonel/turkish"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds the domain dependencies for all routes. Audit may be nil
// in tests.
type Handler struct {
	Auth      *session.Authenticator
	Personnel *repo.PersonnelRepo
	Leaves    *repo.LeaveRepo
	Ledger    *leave.Ledger
	Engine    *fhsz.Engine
	Audit     *audit.Log

	validate *validator.Validate
	log      *zap.Logger
}

func NewHandler(auth *session.Authenticator, personnel *repo.PersonnelRepo, leaves *repo.LeaveRepo,
	ledger *leave.Ledger, engine *fhsz.Engine, auditLog *audit.Log, log *zap.Logger) *Handler {
	if log == nil {
		log = zap.NewNop()
	}
	h := &Handler{
		Auth:      auth,
		Personnel: personnel,
		Leaves:    leaves,
		Ledger:    ledger,
		Engine:    engine,
		Audit:     auditLog,
		validate:  validator.New(),
		log:       log,
	}
	h.validate.RegisterValidation("tckn", func(fl validator.FieldLevel) bool {
		ok, _ := turkish.ValidateTCKN(fl.Field().String())
		return ok
	})
	h.validate.RegisterValidation("trphone", func(fl validator.FieldLevel) bool {
		ok, _ := turkish.ValidatePhone(fl.Field().String())
		return ok
	})
	return h
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.InvalidInput:
		return http.StatusBadRequest
	case apperr.AuthExpired:
		return http.StatusUnauthorized
	case apperr.SheetMissing, apperr.FileMissing:
		return http.StatusNotFound
	case apperr.ConnectionError, apperr.StoreTransient:
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	msg := apperr.UserMessage(err)
	h.log.Error("request failed", zap.Error(err))
	writeJSON(w, statusFor(err), ErrorResponse{
		Title:    msg.Title,
		Message:  msg.Text,
		Severity: string(msg.Severity),
	})
}

// decode parses the body and runs the validator. The first tag failure
// becomes the InvalidInput message.
func (h *Handler) decode(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperr.New(apperr.InvalidInput, "İstek gövdesi çözümlenemedi.")
	}
	if err := h.validate.Struct(v); err != nil {
		if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
			return apperr.New(apperr.InvalidInput, "Geçersiz alan: "+errs[0].Field())
		}
		return apperr.Wrap(apperr.InvalidInput, "doğrulama", err)
	}
	return nil
}

func (h *Handler) auditLog(r *http.Request, e audit.Entry) {
	if h.Audit == nil {
		return
	}
	e.IPAdresi = r.RemoteAddr
	if err := h.Audit.Append(r.Context(), e); err != nil {
		h.log.Warn("audit append failed", zap.Error(err))
	}
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	res, err := h.Auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.auditLog(r, audit.Entry{
		Kullanici: req.Username,
		IslemTipi: "GIRIS",
		Detay:     res.Outcome.String(),
		Basarili:  res.Outcome == session.OutcomeOK || res.Outcome == session.OutcomeChangeRequired,
	})

	status := http.StatusOK
	if res.Outcome == session.OutcomeUserUnknown || res.Outcome == session.OutcomePasswordIncorrect {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, LoginResponse{
		Outcome:  res.Outcome.String(),
		Role:     res.Role,
		FullName: res.FullName,
	})
}

func (h *Handler) PasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	// The current password must still authenticate before the new one is
	// accepted.
	res, err := h.Auth.Login(r.Context(), req.Username, req.CurrentPassword)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if res.Outcome == session.OutcomeUserUnknown || res.Outcome == session.OutcomePasswordIncorrect {
		writeJSON(w, http.StatusUnauthorized, LoginResponse{Outcome: res.Outcome.String()})
		return
	}

	if err := h.Auth.Reset(r.Context(), res.User, req.NewPassword, req.Confirm); err != nil {
		h.writeError(w, err)
		return
	}
	h.auditLog(r, audit.Entry{
		Kullanici: req.Username,
		IslemTipi: "SIFRE_DEGISIM",
		Tablo:     "user_login",
		Basarili:  true,
	})
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PERSONNEL HANDLERS
// =============================================================================

func personnelDTO(p repo.Personnel) PersonnelDTO {
	return PersonnelDTO{
		TC:           p.TC,
		FullName:     p.FullName,
		Unit:         p.Unit,
		Title:        p.Title,
		ServiceClass: p.ServiceClass,
		HireDate:     p.HireDate,
		Phone:        p.Phone,
		Email:        p.Email,
		Status:       p.Status,
	}
}

func (h *Handler) ListPersonnel(w http.ResponseWriter, r *http.Request) {
	people, err := h.Personnel.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]PersonnelDTO, 0, len(people))
	for _, p := range people {
		out = append(out, personnelDTO(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) GetPersonnel(w http.ResponseWriter, r *http.Request) {
	tc := chi.URLParam(r, "tc")
	p, err := h.Personnel.GetByTC(r.Context(), tc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if p == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Title:    "Kayıt Bulunamadı",
			Message:  "Bu kimlik numarasıyla personel kaydı yok.",
			Severity: string(apperr.SeverityWarning),
		})
		return
	}
	writeJSON(w, http.StatusOK, personnelDTO(*p))
}

func (h *Handler) CreatePersonnel(w http.ResponseWriter, r *http.Request) {
	var req CreatePersonnelRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}

	p := repo.Personnel{
		TC:           req.TC,
		FullName:     req.FullName,
		Unit:         req.Unit,
		Title:        req.Title,
		ServiceClass: req.ServiceClass,
		HireDate:     req.HireDate,
		Phone:        req.Phone,
		Email:        req.Email,
	}
	if err := h.Personnel.Create(r.Context(), p); err != nil {
		h.writeError(w, err)
		return
	}
	h.auditLog(r, audit.Entry{
		IslemTipi: "PERSONEL_EKLE",
		Tablo:     "Personel",
		KayitID:   req.TC,
		Basarili:  true,
	})
	w.WriteHeader(http.StatusCreated)
}

// =============================================================================
// ENTITLEMENT HANDLERS
// =============================================================================

func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.New(apperr.InvalidInput, "Geçersiz parametre: "+name)
	}
	return n, nil
}

func (h *Handler) AnnualSummary(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		h.writeError(w, err)
		return
	}
	rows, err := h.Engine.AnnualSummary(r.Context(), year)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]AnnualRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, AnnualRowDTO{
			TC:              row.TC,
			FullName:        row.FullName,
			ServiceClass:    row.ServiceClass,
			TotalHours:      fhsz.FormatHours(row.TotalHours),
			PresentDays:     row.PresentDays,
			LeaveDays:       row.LeaveDays,
			CumulativeHours: fhsz.FormatHours(row.CumulativeHours),
			EntitledDays:    row.EntitledDays,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) MonthlyCumulative(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year")
	if err != nil {
		h.writeError(w, err)
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		h.writeError(w, err)
		return
	}
	if month < 1 || month > 12 {
		h.writeError(w, apperr.New(apperr.InvalidInput, "Dönem 1 ile 12 arasında olmalıdır."))
		return
	}
	rows, err := h.Engine.MonthlyCumulative(r.Context(), year, month)
	if err != nil {
		h.writeError(w, err)
		return
	}
	out := make([]MonthlyRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, MonthlyRowDTO{
			TC:              row.TC,
			FullName:        row.FullName,
			Month:           row.Month,
			MonthHours:      fhsz.FormatHours(row.MonthHours),
			CumulativeHours: fhsz.FormatHours(row.CumulativeHours),
			EntitledDays:    row.EntitledDays,
		})
	}
	writeJSON(w, http.StatusOK, out)
}

// =============================================================================
// LEAVE HANDLERS
// =============================================================================

func (h *Handler) PostLeave(w http.ResponseWriter, r *http.Request) {
	var req PostLeaveRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	start, err := time.Parse(leave.DateLayout, req.Start)
	if err != nil {
		h.writeError(w, apperr.New(apperr.InvalidInput, "Başlangıç tarihi GG.AA.YYYY biçiminde olmalıdır."))
		return
	}

	posted, err := h.Ledger.PostLeave(r.Context(), leave.Record{
		ServiceClass: req.ServiceClass,
		TC:           req.TC,
		FullName:     req.FullName,
		Type:         req.Type,
		Start:        start,
		DayCount:     req.DayCount,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.auditLog(r, audit.Entry{
		IslemTipi: "IZIN_KAYIT",
		Tablo:     "izin_giris",
		KayitID:   posted.ID,
		Detay:     posted.Type,
		Basarili:  true,
	})
	writeJSON(w, http.StatusCreated, LeaveDTO{
		ID:       posted.ID,
		TC:       posted.TC,
		Type:     posted.Type,
		Start:    posted.Start.Format(leave.DateLayout),
		DayCount: posted.DayCount,
		End:      posted.End.Format(leave.DateLayout),
		Status:   posted.Status,
	})
}

func (h *Handler) CancelLeave(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CancelLeaveRequest
	if err := h.decode(r, &req); err != nil {
		h.writeError(w, err)
		return
	}
	if err := h.Ledger.CancelLeave(r.Context(), id, req.TC, req.Type, req.DayCount); err != nil {
		h.writeError(w, err)
		return
	}
	h.auditLog(r, audit.Entry{
		IslemTipi: "IZIN_IPTAL",
		Tablo:     "izin_giris",
		KayitID:   id,
		Basarili:  true,
	})
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LeaveBalance(w http.ResponseWriter, r *http.Request) {
	tc := chi.URLParam(r, "tc")
	rec, err := h.Leaves.BalanceFor(r.Context(), tc)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if rec == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{
			Title:    "Kayıt Bulunamadı",
			Message:  "Bu kimlik numarasıyla bakiye kaydı yok.",
			Severity: string(apperr.SeverityWarning),
		})
		return
	}
	writeJSON(w, http.StatusOK, BalanceDTO{
		TC:     rec[repo.BalanceColTC],
		Yillik: rec[repo.BalanceColYillik],
		Sua:    rec[repo.BalanceColSua],
		Rapor:  rec[repo.BalanceColRapor],
	})
}
