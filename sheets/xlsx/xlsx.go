/*
Package xlsx implements the tabular store over local .xlsx workbooks.

PURPOSE:
  Offline fallback and integration testing backend. Each workbook key maps
  to one .xlsx file on disk; worksheets map to sheet tabs. Semantics mirror
  the remote service: header row 1, string cells, 1-based indexes, writes
  saved immediately so a crash loses at most the in-flight mutation.

LIMITS:
  - Single process only. The file is held open for the client's lifetime.
  - No rate limits, so StoreTransient is never produced here.

SEE ALSO:
  - sheets/: interface contracts
  - sheets/gsheets/: the production backend
*/
package xlsx

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/xuri/excelize/v2"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/sheets"
)

// Client resolves workbook keys to .xlsx files.
type Client struct {
	mu    sync.Mutex
	paths map[string]string
	files map[string]*excelize.File
}

// NewClient creates a client over a key -> file path mapping.
func NewClient(paths map[string]string) *Client {
	cp := make(map[string]string, len(paths))
	for k, v := range paths {
		cp[k] = v
	}
	return &Client{paths: cp, files: make(map[string]*excelize.File)}
}

// Close releases every open workbook file.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	var firstErr error
	for key, f := range c.files {
		if err := f.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(c.files, key)
	}
	return firstErr
}

func (c *Client) Open(_ context.Context, workbookKey string) (sheets.Workbook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f, ok := c.files[workbookKey]; ok {
		return &workbook{client: c, key: workbookKey, file: f}, nil
	}

	path, ok := c.paths[workbookKey]
	if !ok {
		return nil, apperr.New(apperr.SheetMissing, "workbook "+workbookKey)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, apperr.Wrap(apperr.FileMissing, "workbook file "+path, err)
	}
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperr.Wrap(apperr.FileMissing, "open workbook "+path, err)
	}
	c.files[workbookKey] = f
	return &workbook{client: c, key: workbookKey, file: f}, nil
}

// =============================================================================
// WORKBOOK / WORKSHEET
// =============================================================================

type workbook struct {
	client *Client
	key    string
	file   *excelize.File
}

func (w *workbook) Key() string { return w.key }

func (w *workbook) Sheet(name string) (sheets.Worksheet, error) {
	idx, err := w.file.GetSheetIndex(name)
	if err != nil || idx < 0 {
		return nil, apperr.New(apperr.SheetMissing, w.key+"/"+name)
	}
	return &worksheet{client: w.client, file: w.file, sheet: name}, nil
}

type worksheet struct {
	client *Client
	file   *excelize.File
	sheet  string
}

func (s *worksheet) Name() string { return s.sheet }

func (s *worksheet) GetAllRecords(_ context.Context) ([]sheets.Record, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "read rows "+s.sheet, err)
	}
	return sheets.RecordsFromRows(rows), nil
}

func (s *worksheet) HeaderRow(_ context.Context) ([]string, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "read header "+s.sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *worksheet) AppendRow(_ context.Context, values []string) error {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return apperr.Wrap(apperr.Unknown, "read rows "+s.sheet, err)
	}
	next := len(rows) + 1
	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, next)
		if err != nil {
			return apperr.Wrap(apperr.Unknown, "cell name", err)
		}
		if err := s.file.SetCellValue(s.sheet, cell, v); err != nil {
			return apperr.Wrap(apperr.Unknown, "write cell "+cell, err)
		}
	}
	return s.save()
}

func (s *worksheet) Find(_ context.Context, query string) (*sheets.CellRef, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	hits, err := s.file.SearchSheet(s.sheet, query)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "search "+s.sheet, err)
	}
	if len(hits) == 0 {
		return nil, nil
	}
	col, row, err := excelize.CellNameToCoordinates(hits[0])
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "parse cell "+hits[0], err)
	}
	return &sheets.CellRef{Row: row, Col: col}, nil
}

func (s *worksheet) FindInColumn(_ context.Context, col int, query string) (*sheets.CellRef, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "read rows "+s.sheet, err)
	}
	for r, row := range rows {
		if col-1 < len(row) && row[col-1] == query {
			return &sheets.CellRef{Row: r + 1, Col: col}, nil
		}
	}
	return nil, nil
}

func (s *worksheet) RowValues(_ context.Context, row int) ([]string, error) {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows, err := s.file.GetRows(s.sheet)
	if err != nil {
		return nil, apperr.Wrap(apperr.Unknown, "read rows "+s.sheet, err)
	}
	if row < 1 || row > len(rows) {
		return nil, nil
	}
	return rows[row-1], nil
}

func (s *worksheet) UpdateCell(_ context.Context, row, col int, value string) error {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return apperr.Wrap(apperr.Unknown, fmt.Sprintf("cell name (%d,%d)", row, col), err)
	}
	if err := s.file.SetCellValue(s.sheet, cell, value); err != nil {
		return apperr.Wrap(apperr.Unknown, "write cell "+cell, err)
	}
	return s.save()
}

func (s *worksheet) DeleteRow(_ context.Context, row int) error {
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	if err := s.file.RemoveRow(s.sheet, row); err != nil {
		return apperr.Wrap(apperr.Unknown, fmt.Sprintf("remove row %d", row), err)
	}
	return s.save()
}

func (s *worksheet) save() error {
	if err := s.file.Save(); err != nil {
		return apperr.Wrap(apperr.Unknown, "save workbook", err)
	}
	return nil
}
