// Package memory provides an in-memory sheets.Client for tests.
package memory

import (
	"context"
	"sync"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// MEMORY CLIENT - In-memory implementation (for testing/dev)
// =============================================================================

// Client holds workbooks as raw row matrices guarded by one mutex.
// Row 1 is the header, exactly like the remote service.
type Client struct {
	mu        sync.Mutex
	workbooks map[string]map[string][][]string

	// FailNext, when set, makes the next worksheet call return this error
	// and then resets. Used to simulate transport failures mid-operation.
	FailNext error
}

func NewClient() *Client {
	return &Client{workbooks: make(map[string]map[string][][]string)}
}

// Seed replaces the contents of a sheet. rows[0] is the header row.
func (c *Client) Seed(workbookKey, sheetName string, rows [][]string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	wb, ok := c.workbooks[workbookKey]
	if !ok {
		wb = make(map[string][][]string)
		c.workbooks[workbookKey] = wb
	}
	cp := make([][]string, len(rows))
	for i, r := range rows {
		cp[i] = append([]string(nil), r...)
	}
	wb[sheetName] = cp
}

// Rows returns a copy of the sheet's raw rows for assertions.
func (c *Client) Rows(workbookKey, sheetName string) [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	src := c.workbooks[workbookKey][sheetName]
	cp := make([][]string, len(src))
	for i, r := range src {
		cp[i] = append([]string(nil), r...)
	}
	return cp
}

func (c *Client) Open(_ context.Context, workbookKey string) (sheets.Workbook, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.workbooks[workbookKey]; !ok {
		return nil, apperr.New(apperr.SheetMissing, "workbook "+workbookKey)
	}
	return &workbook{client: c, key: workbookKey}, nil
}

func (c *Client) takeFailure() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	err := c.FailNext
	c.FailNext = nil
	return err
}

// =============================================================================
// WORKBOOK / WORKSHEET
// =============================================================================

type workbook struct {
	client *Client
	key    string
}

func (w *workbook) Key() string { return w.key }

func (w *workbook) Sheet(name string) (sheets.Worksheet, error) {
	w.client.mu.Lock()
	defer w.client.mu.Unlock()
	if _, ok := w.client.workbooks[w.key][name]; !ok {
		return nil, apperr.New(apperr.SheetMissing, w.key+"/"+name)
	}
	return &worksheet{client: w.client, workbook: w.key, name: name}, nil
}

type worksheet struct {
	client   *Client
	workbook string
	name     string
}

func (s *worksheet) Name() string { return s.name }

func (s *worksheet) rows() [][]string {
	return s.client.workbooks[s.workbook][s.name]
}

func (s *worksheet) GetAllRecords(_ context.Context) ([]sheets.Record, error) {
	if err := s.client.takeFailure(); err != nil {
		return nil, err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	return sheets.RecordsFromRows(s.rows()), nil
}

func (s *worksheet) HeaderRow(_ context.Context) ([]string, error) {
	if err := s.client.takeFailure(); err != nil {
		return nil, err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows := s.rows()
	if len(rows) == 0 {
		return nil, nil
	}
	return append([]string(nil), rows[0]...), nil
}

func (s *worksheet) AppendRow(_ context.Context, values []string) error {
	if err := s.client.takeFailure(); err != nil {
		return err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	wb := s.client.workbooks[s.workbook]
	wb[s.name] = append(wb[s.name], append([]string(nil), values...))
	return nil
}

func (s *worksheet) Find(_ context.Context, query string) (*sheets.CellRef, error) {
	if err := s.client.takeFailure(); err != nil {
		return nil, err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	for r, row := range s.rows() {
		for c, cell := range row {
			if cell == query {
				return &sheets.CellRef{Row: r + 1, Col: c + 1}, nil
			}
		}
	}
	return nil, nil
}

func (s *worksheet) FindInColumn(_ context.Context, col int, query string) (*sheets.CellRef, error) {
	if err := s.client.takeFailure(); err != nil {
		return nil, err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	for r, row := range s.rows() {
		if col-1 < len(row) && row[col-1] == query {
			return &sheets.CellRef{Row: r + 1, Col: col}, nil
		}
	}
	return nil, nil
}

func (s *worksheet) RowValues(_ context.Context, row int) ([]string, error) {
	if err := s.client.takeFailure(); err != nil {
		return nil, err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	rows := s.rows()
	if row < 1 || row > len(rows) {
		return nil, nil
	}
	return append([]string(nil), rows[row-1]...), nil
}

func (s *worksheet) UpdateCell(_ context.Context, row, col int, value string) error {
	if err := s.client.takeFailure(); err != nil {
		return err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	wb := s.client.workbooks[s.workbook]
	rows := wb[s.name]
	for len(rows) < row {
		rows = append(rows, nil)
	}
	for len(rows[row-1]) < col {
		rows[row-1] = append(rows[row-1], "")
	}
	rows[row-1][col-1] = value
	wb[s.name] = rows
	return nil
}

func (s *worksheet) DeleteRow(_ context.Context, row int) error {
	if err := s.client.takeFailure(); err != nil {
		return err
	}
	s.client.mu.Lock()
	defer s.client.mu.Unlock()
	wb := s.client.workbooks[s.workbook]
	rows := wb[s.name]
	if row < 1 || row > len(rows) {
		return nil
	}
	wb[s.name] = append(rows[:row-1], rows[row:]...)
	return nil
}
