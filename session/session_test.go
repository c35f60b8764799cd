package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radkit/radpersonel/cache"
	"github.com/radkit/radpersonel/repo"
	"github.com/radkit/radpersonel/session"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/sheets/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestAuth(t *testing.T) (*session.Authenticator, *repo.UserRepo, *memory.Client) {
	t.Helper()
	client := memory.NewClient()

	client.Seed(sheets.WorkbookUser, sheets.SheetUserLogin, [][]string{
		{"kullanici_adi", "rol", "sifre", "adi_soyadi", "son_giris", "degisim_gerekli"},
		{"ayilmaz", "teknisyen", session.HashPassword("gizli-parola-1"), "AYŞE YILMAZ", "", "HAYIR"},
		{"mkaya", "yonetici", session.HashPassword(session.DefaultPassword), "MEHMET KAYA", "", "EVET"},
	})

	store := repo.NewStore(client, cache.New(), time.Minute, zap.NewNop())
	users := repo.NewUser(store)
	return session.NewAuthenticator(users, 8, zap.NewNop()), users, client
}

// =============================================================================
// LOGIN OUTCOMES
// =============================================================================

func TestLogin_OK(t *testing.T) {
	auth, users, _ := newTestAuth(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, "ayilmaz", "gizli-parola-1")
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeOK, res.Outcome)
	assert.Equal(t, "teknisyen", res.Role)
	assert.Equal(t, "AYŞE YILMAZ", res.FullName)

	// Successful login stamps son_giris.
	user, err := users.Lookup(ctx, "ayilmaz")
	require.NoError(t, err)
	assert.NotEmpty(t, user.LastLogin)
}

func TestLogin_TrimsUsername(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	res, err := auth.Login(context.Background(), "  ayilmaz  ", "gizli-parola-1")
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeOK, res.Outcome)
}

func TestLogin_UsernameIsCaseSensitive(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	res, err := auth.Login(context.Background(), "AYILMAZ", "gizli-parola-1")
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeUserUnknown, res.Outcome)
}

func TestLogin_MatchesUsernameColumnOnly(t *testing.T) {
	// GIVEN: An earlier row whose role cell holds the literal "admin"
	// WHEN: The user "admin" logs in
	// THEN: Their own row resolves; the role cell must not shadow it

	client := memory.NewClient()
	client.Seed(sheets.WorkbookUser, sheets.SheetUserLogin, [][]string{
		{"kullanici_adi", "rol", "sifre", "adi_soyadi", "son_giris", "degisim_gerekli"},
		{"vyildiz", "admin", session.HashPassword("parola-bir-1"), "VELİ YILDIZ", "", "HAYIR"},
		{"admin", "admin", session.HashPassword("parola-iki-2"), "SİSTEM YÖNETİCİSİ", "", "HAYIR"},
	})
	store := repo.NewStore(client, cache.New(), time.Minute, zap.NewNop())
	auth := session.NewAuthenticator(repo.NewUser(store), 8, zap.NewNop())

	res, err := auth.Login(context.Background(), "admin", "parola-iki-2")
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeOK, res.Outcome)
	assert.Equal(t, "SİSTEM YÖNETİCİSİ", res.FullName)
}

func TestLogin_WrongPassword(t *testing.T) {
	auth, users, _ := newTestAuth(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, "ayilmaz", "yanlis")
	require.NoError(t, err)
	assert.Equal(t, session.OutcomePasswordIncorrect, res.Outcome)

	user, err := users.Lookup(ctx, "ayilmaz")
	require.NoError(t, err)
	assert.Empty(t, user.LastLogin, "failed login must not stamp son_giris")
}

func TestLogin_ChangeRequired(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	res, err := auth.Login(context.Background(), "mkaya", session.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeChangeRequired, res.Outcome)
	require.NotNil(t, res.User)
}

func TestLogin_StoreFailureIsError(t *testing.T) {
	// A transport failure must surface as an error, never as
	// "wrong password".

	auth, _, client := newTestAuth(t)
	client.FailNext = assert.AnError

	res, err := auth.Login(context.Background(), "ayilmaz", "gizli-parola-1")
	assert.Error(t, err)
	assert.Nil(t, res)
}

// =============================================================================
// FORCED RESET (scenario: first login with the provisioning default)
// =============================================================================

func TestReset_FullFlow(t *testing.T) {
	// GIVEN: A user flagged degisim_gerekli = EVET
	// WHEN: They authenticate, reset, and log in again
	// THEN: The second login is OutcomeOK with the new password

	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, "mkaya", session.DefaultPassword)
	require.NoError(t, err)
	require.Equal(t, session.OutcomeChangeRequired, res.Outcome)

	require.NoError(t, auth.Reset(ctx, res.User, "yeni-parola-9", "yeni-parola-9"))

	res, err = auth.Login(ctx, "mkaya", "yeni-parola-9")
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeOK, res.Outcome)

	// The old default no longer works.
	res, err = auth.Login(ctx, "mkaya", session.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomePasswordIncorrect, res.Outcome)
}

func TestReset_Validation(t *testing.T) {
	auth, _, _ := newTestAuth(t)
	ctx := context.Background()

	res, err := auth.Login(ctx, "mkaya", session.DefaultPassword)
	require.NoError(t, err)
	user := res.User

	tests := []struct {
		name     string
		password string
		confirm  string
	}{
		{"empty", "", ""},
		{"mismatch", "yeni-parola-9", "yeni-parola-8"},
		{"default reused", session.DefaultPassword, session.DefaultPassword},
		{"too short", "kisa", "kisa"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, auth.Reset(ctx, user, tc.password, tc.confirm))
		})
	}

	// Nothing above may have touched the stored hash.
	res, err = auth.Login(ctx, "mkaya", session.DefaultPassword)
	require.NoError(t, err)
	assert.Equal(t, session.OutcomeChangeRequired, res.Outcome)
}

func TestHashPassword_IsLowercaseHex(t *testing.T) {
	h := session.HashPassword("abc")
	assert.Len(t, h, 64)
	assert.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", h)
}
