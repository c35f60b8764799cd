/*
Package gsheets implements the tabular store over Google Sheets and Drive.

PURPOSE:
  Production backend. Workbook keys resolve to spreadsheet IDs; worksheet
  operations translate to the Sheets v4 values API. Documents and images go
  to Drive folders addressed by IDs read from the Sabitler sheet, and the
  returned web-view links are stored in the owning row.

AUTH:
  OAuth2 installed-app flow. credentials.json holds the client secret,
  token.json the cached user token. When the token cannot be refreshed the
  session reports AuthExpired and the application must be restarted; there
  is no interactive re-consent mid-session.

ERROR TRANSLATION:
  HTTP 429 and 5xx        -> StoreTransient (retryable)
  HTTP 404                -> SheetMissing
  oauth2.RetrieveError    -> AuthExpired
  anything transport-ish  -> ConnectionError

SUSPENSION:
  Every method issues at least one RPC. Callers must not hold UI-thread
  attention across these calls.

SEE ALSO:
  - sheets/: interface contracts
  - repo/constants.go: where Drive folder IDs come from
*/
package gsheets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"strings"
	"sync"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// CLIENT
// =============================================================================

// Client talks to the Sheets and Drive services for a fixed set of
// workbooks.
type Client struct {
	svc   *gsheets.Service
	drive *drive.Service

	// workbook key -> spreadsheet ID
	ids map[string]string

	// sheet title -> numeric sheet ID per spreadsheet, filled lazily.
	// DeleteDimension requests need the numeric ID, not the title.
	mu   sync.Mutex
	gids map[string]map[string]int64
}

// NewClient builds a client from credentials.json and token.json.
// A missing credentials file is a startup-fatal FileMissing; the launcher
// exits non-zero on it.
func NewClient(ctx context.Context, credentialsFile, tokenFile string, ids map[string]string) (*Client, error) {
	creds, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, apperr.Wrap(apperr.FileMissing, "read "+credentialsFile, err)
	}
	conf, err := google.ConfigFromJSON(creds, gsheets.SpreadsheetsScope, drive.DriveScope)
	if err != nil {
		return nil, apperr.Wrap(apperr.FileMissing, "parse "+credentialsFile, err)
	}
	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, apperr.Wrap(apperr.AuthExpired, "read "+tokenFile, err)
	}

	httpClient := conf.Client(ctx, tok)
	svc, err := gsheets.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, translate("create sheets service", err)
	}
	driveSvc, err := drive.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return nil, translate("create drive service", err)
	}

	cp := make(map[string]string, len(ids))
	for k, v := range ids {
		cp[k] = v
	}
	return &Client{
		svc:   svc,
		drive: driveSvc,
		ids:   cp,
		gids:  make(map[string]map[string]int64),
	}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	return tok, json.NewDecoder(f).Decode(tok)
}

func (c *Client) Open(ctx context.Context, workbookKey string) (sheets.Workbook, error) {
	id, ok := c.ids[workbookKey]
	if !ok {
		return nil, apperr.New(apperr.SheetMissing, "workbook "+workbookKey)
	}
	// Probe the spreadsheet so Open fails fast on auth or network loss.
	if _, err := c.sheetIDs(ctx, id); err != nil {
		return nil, err
	}
	return &workbook{client: c, key: workbookKey, spreadsheetID: id}, nil
}

// sheetIDs fetches (and caches) the title -> numeric ID mapping.
func (c *Client) sheetIDs(ctx context.Context, spreadsheetID string) (map[string]int64, error) {
	c.mu.Lock()
	if m, ok := c.gids[spreadsheetID]; ok {
		c.mu.Unlock()
		return m, nil
	}
	c.mu.Unlock()

	meta, err := c.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties").Context(ctx).Do()
	if err != nil {
		return nil, translate("fetch spreadsheet metadata", err)
	}
	m := make(map[string]int64, len(meta.Sheets))
	for _, sh := range meta.Sheets {
		if sh.Properties != nil {
			m[sh.Properties.Title] = sh.Properties.SheetId
		}
	}
	c.mu.Lock()
	c.gids[spreadsheetID] = m
	c.mu.Unlock()
	return m, nil
}

// =============================================================================
// DRIVE UPLOADS
// =============================================================================

// UploadFile stores content in the given Drive folder and returns the
// web-view link for the owning row.
func (c *Client) UploadFile(ctx context.Context, folderID, name string, content io.Reader) (string, error) {
	meta := &drive.File{Name: name, Parents: []string{folderID}}
	created, err := c.drive.Files.Create(meta).
		Media(content).
		Fields("id", "webViewLink").
		Context(ctx).
		Do()
	if err != nil {
		return "", translate("upload "+name, err)
	}
	return created.WebViewLink, nil
}

// =============================================================================
// WORKBOOK / WORKSHEET
// =============================================================================

type workbook struct {
	client        *Client
	key           string
	spreadsheetID string
}

func (w *workbook) Key() string { return w.key }

func (w *workbook) Sheet(name string) (sheets.Worksheet, error) {
	gids, err := w.client.sheetIDs(context.Background(), w.spreadsheetID)
	if err != nil {
		return nil, err
	}
	gid, ok := gids[name]
	if !ok {
		return nil, apperr.New(apperr.SheetMissing, w.key+"/"+name)
	}
	return &worksheet{
		client:        w.client,
		spreadsheetID: w.spreadsheetID,
		sheet:         name,
		gid:           gid,
	}, nil
}

type worksheet struct {
	client        *Client
	spreadsheetID string
	sheet         string
	gid           int64
}

func (s *worksheet) Name() string { return s.sheet }

func (s *worksheet) fetchRows(ctx context.Context) ([][]string, error) {
	resp, err := s.client.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("'%s'", s.sheet)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, translate("read "+s.sheet, err)
	}
	rows := make([][]string, len(resp.Values))
	for i, raw := range resp.Values {
		row := make([]string, len(raw))
		for j, cell := range raw {
			row[j] = fmt.Sprint(cell)
		}
		rows[i] = row
	}
	return rows, nil
}

func (s *worksheet) GetAllRecords(ctx context.Context) ([]sheets.Record, error) {
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	return sheets.RecordsFromRows(rows), nil
}

func (s *worksheet) HeaderRow(ctx context.Context) ([]string, error) {
	resp, err := s.client.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("'%s'!1:1", s.sheet)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, translate("read header "+s.sheet, err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	header := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		header[i] = fmt.Sprint(cell)
	}
	return header, nil
}

func (s *worksheet) AppendRow(ctx context.Context, values []string) error {
	raw := make([]interface{}, len(values))
	for i, v := range values {
		raw[i] = v
	}
	_, err := s.client.svc.Spreadsheets.Values.
		Append(s.spreadsheetID, fmt.Sprintf("'%s'", s.sheet), &gsheets.ValueRange{Values: [][]interface{}{raw}}).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return translate("append to "+s.sheet, err)
	}
	return nil
}

func (s *worksheet) Find(ctx context.Context, query string) (*sheets.CellRef, error) {
	// The values API has no server-side search; scan the snapshot.
	rows, err := s.fetchRows(ctx)
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, cell := range row {
			if cell == query {
				return &sheets.CellRef{Row: r + 1, Col: c + 1}, nil
			}
		}
	}
	return nil, nil
}

func (s *worksheet) FindInColumn(ctx context.Context, col int, query string) (*sheets.CellRef, error) {
	letter := columnLetters(col)
	resp, err := s.client.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("'%s'!%s:%s", s.sheet, letter, letter)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, translate(fmt.Sprintf("search column %s of %s", letter, s.sheet), err)
	}
	for r, row := range resp.Values {
		if len(row) > 0 && fmt.Sprint(row[0]) == query {
			return &sheets.CellRef{Row: r + 1, Col: col}, nil
		}
	}
	return nil, nil
}

func (s *worksheet) RowValues(ctx context.Context, row int) ([]string, error) {
	resp, err := s.client.svc.Spreadsheets.Values.
		Get(s.spreadsheetID, fmt.Sprintf("'%s'!%d:%d", s.sheet, row, row)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, translate(fmt.Sprintf("read row %d of %s", row, s.sheet), err)
	}
	if len(resp.Values) == 0 {
		return nil, nil
	}
	vals := make([]string, len(resp.Values[0]))
	for i, cell := range resp.Values[0] {
		vals[i] = fmt.Sprint(cell)
	}
	return vals, nil
}

func (s *worksheet) UpdateCell(ctx context.Context, row, col int, value string) error {
	rangeRef := fmt.Sprintf("'%s'!%s%d", s.sheet, columnLetters(col), row)
	_, err := s.client.svc.Spreadsheets.Values.
		Update(s.spreadsheetID, rangeRef, &gsheets.ValueRange{Values: [][]interface{}{{value}}}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).
		Do()
	if err != nil {
		return translate("update "+rangeRef, err)
	}
	return nil
}

func (s *worksheet) DeleteRow(ctx context.Context, row int) error {
	req := &gsheets.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheets.Request{{
			DeleteDimension: &gsheets.DeleteDimensionRequest{
				Range: &gsheets.DimensionRange{
					SheetId:    s.gid,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1),
					EndIndex:   int64(row),
				},
			},
		}},
	}
	_, err := s.client.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do()
	if err != nil {
		return translate(fmt.Sprintf("delete row %d of %s", row, s.sheet), err)
	}
	return nil
}

// =============================================================================
// ERROR TRANSLATION
// =============================================================================

// columnLetters converts a 1-based column index to A1 letters.
func columnLetters(col int) string {
	var b strings.Builder
	for col > 0 {
		col--
		b.WriteByte(byte('A' + col%26))
		col /= 26
	}
	// Reverse
	s := b.String()
	out := make([]byte, len(s))
	for i := 0; i < len(s); i++ {
		out[i] = s[len(s)-1-i]
	}
	return string(out)
}

func translate(op string, err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return apperr.Wrap(apperr.AuthExpired, op, err)
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429 || apiErr.Code >= 500:
			return apperr.Wrap(apperr.StoreTransient, op, err)
		case apiErr.Code == 404:
			return apperr.Wrap(apperr.SheetMissing, op, err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return apperr.Wrap(apperr.AuthExpired, op, err)
		}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return apperr.Wrap(apperr.ConnectionError, op, err)
	}

	return apperr.Wrap(apperr.Unknown, op, err)
}
