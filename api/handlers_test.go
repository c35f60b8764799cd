package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radkit/radpersonel/api"
	"github.com/radkit/radpersonel/cache"
	"github.com/radkit/radpersonel/fhsz"
	"github.com/radkit/radpersonel/leave"
	"github.com/radkit/radpersonel/repo"
	"github.com/radkit/radpersonel/session"
	"github.com/radkit/radpersonel/sheets"
	"github.com/radkit/radpersonel/sheets/memory"
)

// =============================================================================
// TEST SETUP
// =============================================================================

const testTC = "10000000146"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	client := memory.NewClient()

	client.Seed(sheets.WorkbookUser, sheets.SheetUserLogin, [][]string{
		{"kullanici_adi", "rol", "sifre", "adi_soyadi", "son_giris", "degisim_gerekli"},
		{"ayilmaz", "teknisyen", session.HashPassword("gizli-parola-1"), "AYŞE YILMAZ", "", "HAYIR"},
	})
	client.Seed(sheets.WorkbookPersonnel, sheets.SheetPersonnel, [][]string{
		{repo.ColTC, repo.ColFullName, repo.ColUnit, repo.ColTitle, repo.ColServiceCls,
			repo.ColHireDate, repo.ColPhone, repo.ColEmail, repo.ColStatus,
			repo.ColExitDate, repo.ColExitReason, repo.ColDocLinks},
		{testTC, "AYŞE YILMAZ", "Radyoloji", "Tekniker", "SHS", "01.02.2020", "05321234567", "ayse@example.com", "Aktif", "", "", ""},
	})
	client.Seed(sheets.WorkbookPersonnel, sheets.SheetLeaveRecords, [][]string{
		{repo.LeaveColID, repo.LeaveColClass, repo.LeaveColTC, repo.LeaveColName,
			repo.LeaveColType, repo.LeaveColStart, repo.LeaveColDays, repo.LeaveColEnd, repo.LeaveColStatus},
	})
	client.Seed(sheets.WorkbookPersonnel, sheets.SheetLeaveBalance, [][]string{
		{repo.BalanceColTC, repo.BalanceColYillik, repo.BalanceColSua, repo.BalanceColRapor},
		{testTC, "3", "0", "0"},
	})

	puantaj := [][]string{
		{"Ait_yil", "Donem", "TC_Kimlik", "Adi_Soyadi", "Hizmet_Sinifi", "Fiili Çalışma (saat)", "Calisilan_Gun", "Izinli_Gun"},
	}
	for m := 1; m <= 6; m++ {
		puantaj = append(puantaj, []string{"2025", fmt.Sprint(m), testTC, "AYŞE YILMAZ", "SHS", "100", "20", "0"})
	}
	client.Seed(sheets.WorkbookPersonnel, sheets.SheetPuantaj, puantaj)

	store := repo.NewStore(client, cache.New(), time.Minute, zap.NewNop())
	users := repo.NewUser(store)
	handler := api.NewHandler(
		session.NewAuthenticator(users, 8, zap.NewNop()),
		repo.NewPersonnel(store),
		repo.NewLeave(store),
		leave.NewLedger(store, nil, zap.NewNop()),
		fhsz.NewEngine(repo.NewPuantaj(store)),
		nil,
		zap.NewNop(),
	)

	srv := httptest.NewServer(api.NewRouter(handler))
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(raw))
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

// =============================================================================
// SESSION
// =============================================================================

func TestLoginEndpoint(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/login", api.LoginRequest{
		Username: "ayilmaz", Password: "gizli-parola-1",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body api.LoginResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "ok", body.Outcome)
	assert.Equal(t, "teknisyen", body.Role)

	resp = postJSON(t, srv.URL+"/api/login", api.LoginRequest{
		Username: "ayilmaz", Password: "yanlis",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// PERSONNEL
// =============================================================================

func TestCreatePersonnel_InvalidTCKNRejected(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/personnel", api.CreatePersonnelRequest{
		TC: "12345678901", FullName: "Test Kişi",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	var body api.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Geçersiz Giriş", body.Title)
}

func TestGetPersonnel(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/personnel/" + testTC)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var body api.PersonnelDTO
	decodeBody(t, resp, &body)
	assert.Equal(t, "AYŞE YILMAZ", body.FullName)

	resp, err = http.Get(srv.URL + "/api/personnel/10000000222")
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// ENTITLEMENT
// =============================================================================

func TestAnnualAndMonthlyEndpoints(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/fhsz/annual?year=2025")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var annual []api.AnnualRowDTO
	decodeBody(t, resp, &annual)
	require.Len(t, annual, 1)
	assert.Equal(t, "600", annual[0].TotalHours)
	assert.Equal(t, 12, annual[0].EntitledDays)

	resp, err = http.Get(srv.URL + "/api/fhsz/monthly?year=2025&month=3")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var monthly []api.MonthlyRowDTO
	decodeBody(t, resp, &monthly)
	require.Len(t, monthly, 1)
	assert.Equal(t, "300", monthly[0].CumulativeHours)
	assert.Equal(t, 6, monthly[0].EntitledDays)

	resp, err = http.Get(srv.URL + "/api/fhsz/monthly?year=2025&month=13")
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}

// =============================================================================
// LEAVE
// =============================================================================

func TestLeaveLifecycleOverHTTP(t *testing.T) {
	// GIVEN: yillik_kullanilan = 3
	// WHEN: Posting a 5-day leave, then cancelling it
	// THEN: The balance moves 3 -> 8 -> 3

	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/leaves", api.PostLeaveRequest{
		ServiceClass: "SHS",
		TC:           testTC,
		FullName:     "AYŞE YILMAZ",
		Type:         "Yıllık İzin",
		Start:        "03.03.2025",
		DayCount:     5,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var posted api.LeaveDTO
	decodeBody(t, resp, &posted)
	require.NotEmpty(t, posted.ID)
	assert.Equal(t, "07.03.2025", posted.End)

	resp, err := http.Get(srv.URL + "/api/leaves/balance/" + testTC)
	require.NoError(t, err)
	var balance api.BalanceDTO
	decodeBody(t, resp, &balance)
	assert.Equal(t, "8", balance.Yillik)

	raw, err := json.Marshal(api.CancelLeaveRequest{TC: testTC, Type: "Yıllık İzin", DayCount: 5})
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/leaves/"+posted.ID, bytes.NewReader(raw))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp.Body.Close()

	resp, err = http.Get(srv.URL + "/api/leaves/balance/" + testTC)
	require.NoError(t, err)
	decodeBody(t, resp, &balance)
	assert.Equal(t, "3", balance.Yillik)
}

func TestPostLeave_BadDateFormat(t *testing.T) {
	srv := newTestServer(t)

	resp := postJSON(t, srv.URL+"/api/leaves", api.PostLeaveRequest{
		TC: testTC, FullName: "AYŞE YILMAZ", Type: "Yıllık İzin",
		Start: "2025-03-03", DayCount: 5,
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	resp.Body.Close()
}
