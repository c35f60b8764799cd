package repo

import (
	"context"
	"strings"

	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// USER REPOSITORY - the user_login sheet
// =============================================================================
// Credential reads bypass the cache on purpose: a password change must be
// visible on the very next login attempt.

// user_login column positions (1-based). The sheet is positional; the
// reset flow writes by column number, matching the historical layout.
const (
	UserColUsername = 1
	UserColRole     = 2
	UserColHash     = 3
	UserColFullName = 4
	UserColLastSeen = 5
	UserColMustSet  = 6
)

// User is one user_login row plus its sheet position.
type User struct {
	Row                int // 1-based sheet row
	Username           string
	Role               string
	PasswordHash       string
	FullName           string
	LastLogin          string
	MustChangePassword string // "EVET" or "HAYIR"
}

type UserRepo struct {
	store *Store
}

func NewUser(store *Store) *UserRepo {
	return &UserRepo{store: store}
}

// Lookup scans the username column for an exact match (trimmed,
// case-sensitive). The scan is column-scoped: the same string appearing
// in a role or name cell of another row must not shadow a real user.
// Returns nil when not found.
func (r *UserRepo) Lookup(ctx context.Context, username string) (*User, error) {
	ws, err := r.store.Worksheet(ctx, sheets.WorkbookUser, sheets.SheetUserLogin)
	if err != nil {
		return nil, err
	}
	username = strings.TrimSpace(username)

	ref, err := ws.FindInColumn(ctx, UserColUsername, username)
	if err != nil {
		return nil, err
	}
	if ref == nil || ref.Row == 1 {
		return nil, nil
	}
	values, err := ws.RowValues(ctx, ref.Row)
	if err != nil {
		return nil, err
	}
	return userFromRow(ref.Row, values), nil
}

func userFromRow(row int, values []string) *User {
	at := func(col int) string {
		if col-1 < len(values) {
			return values[col-1]
		}
		return ""
	}
	return &User{
		Row:                row,
		Username:           strings.TrimSpace(at(UserColUsername)),
		Role:               at(UserColRole),
		PasswordHash:       strings.TrimSpace(at(UserColHash)),
		FullName:           at(UserColFullName),
		LastLogin:          at(UserColLastSeen),
		MustChangePassword: strings.TrimSpace(at(UserColMustSet)),
	}
}

// SetPassword writes the new hash to the hash column and clears the
// forced-change flag.
func (r *UserRepo) SetPassword(ctx context.Context, row int, hash string) error {
	ws, err := r.store.Worksheet(ctx, sheets.WorkbookUser, sheets.SheetUserLogin)
	if err != nil {
		return err
	}
	if err := ws.UpdateCell(ctx, row, UserColHash, hash); err != nil {
		return err
	}
	if err := ws.UpdateCell(ctx, row, UserColMustSet, "HAYIR"); err != nil {
		return err
	}
	r.store.InvalidateWorkbook(sheets.WorkbookUser)
	return nil
}

// TouchLastLogin stamps the last-login column. Failures are the caller's
// to ignore; login must not fail over a timestamp.
func (r *UserRepo) TouchLastLogin(ctx context.Context, row int, stamp string) error {
	ws, err := r.store.Worksheet(ctx, sheets.WorkbookUser, sheets.SheetUserLogin)
	if err != nil {
		return err
	}
	if err := ws.UpdateCell(ctx, row, UserColLastSeen, stamp); err != nil {
		return err
	}
	r.store.InvalidateWorkbook(sheets.WorkbookUser)
	return nil
}
