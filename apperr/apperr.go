/*
Package apperr centralizes the error taxonomy for the personnel engine.

PURPOSE:
  Every failure that can reach an operator is classified into a Kind.
  Lower layers (sheets, repo) translate transport errors into these kinds;
  the facade maps each kind to a user-facing title, message and severity.
  Technical details stay in the logs, the operator sees the friendly text.

KINDS:
  SheetMissing     workbook/sheet not found           critical
  AuthExpired      OAuth token refresh failed         warning
  ConnectionError  network unreachable                critical
  InvalidInput     validator rejection                warning
  FileMissing      local resource not found           critical
  StoreTransient   rate-limited / 5xx                 warning (retryable)
  Unknown          anything else                      critical

USAGE:
  Domain code wraps with a kind:

    return apperr.Wrap(apperr.StoreTransient, "append leave row", err)

  The facade resolves the presentation:

    msg := apperr.UserMessage(err)
    // msg.Title, msg.Text, msg.Severity

SEE ALSO:
  - sheets/gsheets/gsheets.go: transport-to-kind translation
*/
package apperr

import (
	"errors"
	"fmt"
)

// =============================================================================
// KINDS
// =============================================================================

type Kind string

const (
	SheetMissing    Kind = "sheet_missing"
	AuthExpired     Kind = "auth_expired"
	ConnectionError Kind = "connection_error"
	InvalidInput    Kind = "invalid_input"
	FileMissing     Kind = "file_missing"
	StoreTransient  Kind = "store_transient"
	Unknown         Kind = "unknown"
)

// Severity of the user-facing notification.
type Severity string

const (
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// =============================================================================
// ERROR TYPE
// =============================================================================

// Error carries a kind, an operation description, and the underlying cause.
type Error struct {
	Kind Kind
	Op   string // what was being attempted, e.g. "append leave row"
	Err  error  // underlying cause, may be nil
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Wrap classifies err under kind. A nil err still produces an error value;
// some failures (missing sheet) have no underlying Go error.
func Wrap(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// New creates a classified error with a message and no cause.
func New(kind Kind, op string) error {
	return &Error{Kind: kind, Op: op}
}

// KindOf extracts the kind from err. Unclassified errors are Unknown.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return Unknown
}

// Is lets errors.Is match on kind:
//
//	errors.Is(err, &apperr.Error{Kind: apperr.AuthExpired})
func (e *Error) Is(target error) bool {
	var ae *Error
	if !errors.As(target, &ae) {
		return false
	}
	return ae.Kind == e.Kind
}

// =============================================================================
// CLASSIFICATION HELPERS
// =============================================================================

// IsRetryable reports whether the operation might succeed on retry.
// Only transient store failures (rate limits, 5xx) qualify.
func IsRetryable(err error) bool {
	return KindOf(err) == StoreTransient
}

// IsClientError reports whether the failure is the caller's fault.
func IsClientError(err error) bool {
	return KindOf(err) == InvalidInput
}

// =============================================================================
// USER-FACING MAPPING
// =============================================================================

// Message is what the notification layer shows the operator.
type Message struct {
	Title    string
	Text     string
	Severity Severity
}

var userMessages = map[Kind]Message{
	SheetMissing: {
		Title:    "Veritabanı Hatası",
		Text:     "Veritabanına ulaşılamıyor. Bulut bağlantısını kontrol edin.",
		Severity: SeverityCritical,
	},
	AuthExpired: {
		Title:    "Oturum Süresi Doldu",
		Text:     "Oturum süresi doldu. Lütfen uygulamayı yeniden başlatın.",
		Severity: SeverityWarning,
	},
	ConnectionError: {
		Title:    "Bağlantı Hatası",
		Text:     "İnternet bağlantısı yok. Ağ bağlantınızı kontrol edin.",
		Severity: SeverityCritical,
	},
	InvalidInput: {
		Title:    "Geçersiz Giriş",
		Text:     "Girilen değer geçersiz.",
		Severity: SeverityWarning,
	},
	FileMissing: {
		Title:    "Dosya Bulunamadı",
		Text:     "Kurulum dosyası eksik.",
		Severity: SeverityCritical,
	},
	StoreTransient: {
		Title:    "Geçici Hata",
		Text:     "Sunucu yoğun. Lütfen kısa bir süre sonra tekrar deneyin.",
		Severity: SeverityWarning,
	},
}

// UserMessage resolves the presentation for err. InvalidInput errors carry
// their specific field message through as the text. Unknown kinds fall back
// to a generic message with the kind surfaced as an opaque code.
func UserMessage(err error) Message {
	kind := KindOf(err)

	if kind == InvalidInput {
		msg := userMessages[InvalidInput]
		var ae *Error
		if errors.As(err, &ae) && ae.Op != "" {
			msg.Text = ae.Op
		}
		return msg
	}

	if msg, ok := userMessages[kind]; ok {
		return msg
	}
	return Message{
		Title:    "Beklenmeyen Hata",
		Text:     fmt.Sprintf("Beklenmeyen bir hata oluştu. (kod: %s)", kind),
		Severity: SeverityCritical,
	}
}
