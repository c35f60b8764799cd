/*
Package session implements the login protocol and the forced password
reset.

PURPOSE:
  Credentials live in the positional user_login sheet: username, role,
  password hash, full name, last login, change-required flag. Login
  compares a lowercase hex SHA-256 of the typed password against the
  stored hash; the stored format is fixed by the sheet, so the hash
  function is too.

PROTOCOL:
  The authenticator distinguishes its outcomes rather than collapsing
  them: unknown user, wrong password, credentials OK but change
  required, and OK. A transport failure during lookup is an error, not
  an outcome; the caller must not read it as "wrong password".

FORCED RESET:
  A user flagged EVET in degisim_gerekli authenticates but cannot enter
  the application until Reset succeeds. Reset rejects the empty
  password, a confirmation mismatch, the historical default "12345" and
  anything shorter than the configured minimum, then writes the new
  hash and clears the flag in one pass.
*/
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/repo"
)

// DefaultPassword is the provisioning default; Reset refuses it.
const DefaultPassword = "12345"

// LastLoginLayout is how son_giris timestamps are written.
const LastLoginLayout = "02.01.2006 15:04:05"

// =============================================================================
// OUTCOMES
// =============================================================================

type Outcome int

const (
	// OutcomeOK: credentials match, no flag set.
	OutcomeOK Outcome = iota
	// OutcomeChangeRequired: credentials match but degisim_gerekli is EVET.
	OutcomeChangeRequired
	// OutcomePasswordIncorrect: user exists, hash mismatch.
	OutcomePasswordIncorrect
	// OutcomeUserUnknown: no user_login row for the username.
	OutcomeUserUnknown
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeChangeRequired:
		return "change_required"
	case OutcomePasswordIncorrect:
		return "password_incorrect"
	case OutcomeUserUnknown:
		return "user_unknown"
	}
	return "unknown"
}

// Result is the answer to a login attempt. User is set for every outcome
// except OutcomeUserUnknown.
type Result struct {
	Outcome  Outcome
	Role     string
	FullName string
	User     *repo.User
}

// =============================================================================
// AUTHENTICATOR
// =============================================================================

type Authenticator struct {
	users     *repo.UserRepo
	minLength int
	log       *zap.Logger
	now       func() time.Time
}

func NewAuthenticator(users *repo.UserRepo, passwordMinLength int, log *zap.Logger) *Authenticator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Authenticator{
		users:     users,
		minLength: passwordMinLength,
		log:       log,
		now:       time.Now,
	}
}

// HashPassword is the stored credential format: lowercase hex SHA-256.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Login resolves the username (trimmed, case-sensitive) and checks the
// password. A store failure comes back as an error; the four protocol
// outcomes come back in the Result.
func (a *Authenticator) Login(ctx context.Context, username, password string) (*Result, error) {
	username = strings.TrimSpace(username)

	user, err := a.users.Lookup(ctx, username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		a.log.Warn("login attempt for unknown user", zap.String("username", username))
		return &Result{Outcome: OutcomeUserUnknown}, nil
	}

	result := &Result{Role: user.Role, FullName: user.FullName, User: user}
	if HashPassword(password) != strings.ToLower(user.PasswordHash) {
		a.log.Warn("login failed: wrong password", zap.String("username", username))
		result.Outcome = OutcomePasswordIncorrect
		return result, nil
	}

	if strings.EqualFold(user.MustChangePassword, "EVET") {
		result.Outcome = OutcomeChangeRequired
		return result, nil
	}

	result.Outcome = OutcomeOK
	stamp := a.now().Format(LastLoginLayout)
	if err := a.users.TouchLastLogin(ctx, user.Row, stamp); err != nil {
		// Login must not fail over a timestamp.
		a.log.Warn("last-login stamp failed", zap.String("username", username), zap.Error(err))
	}
	return result, nil
}

// Reset writes a new password for a user in the forced-change state and
// clears the flag. The validation messages are what the dialog shows.
func (a *Authenticator) Reset(ctx context.Context, user *repo.User, newPassword, confirm string) error {
	if strings.TrimSpace(newPassword) == "" {
		return apperr.New(apperr.InvalidInput, "Yeni şifre boş olamaz.")
	}
	if newPassword != confirm {
		return apperr.New(apperr.InvalidInput, "Şifreler birbiriyle uyuşmuyor.")
	}
	if newPassword == DefaultPassword {
		return apperr.New(apperr.InvalidInput, "Varsayılan şifre yeniden kullanılamaz.")
	}
	if len([]rune(newPassword)) < a.minLength {
		return apperr.New(apperr.InvalidInput, "Şifre çok kısa.")
	}

	if err := a.users.SetPassword(ctx, user.Row, HashPassword(newPassword)); err != nil {
		return err
	}
	a.log.Info("password reset completed", zap.String("username", user.Username))
	return nil
}
