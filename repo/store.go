/*
Package repo provides cached repositories over the tabular store.

PURPOSE:
  One repository per entity family (personnel, device, rke, leave,
  constants, user). Each wraps the sheets client and the TTL cache with
  the universal contract:

  READS:  check the cache under "{workbook}:{sheet}"; on miss fetch via
          the client, store with the configured TTL, return the snapshot.
  WRITES: perform the client mutation, then invalidate the pattern
          "{workbook}:" so every sheet of that workbook flushes together.
          Sheets of one workbook are joined by the forms; invalidating
          them together keeps joins coherent.

UPDATE SEMANTICS:
  Update(id, changes) resolves the row via Find(id), reads the header
  row, and issues one UpdateCell per changed column. The store offers no
  multi-cell atomicity: a failure mid-update leaves the already-written
  cells committed. This is intentional; reconciliation is an operator
  concern.

SEE ALSO:
  - cache/: invalidation semantics
  - sheets/: the client contract
*/
package repo

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/radkit/radpersonel/apperr"
	"github.com/radkit/radpersonel/cache"
	"github.com/radkit/radpersonel/sheets"
)

// =============================================================================
// STORE - shared read-through/invalidate plumbing
// =============================================================================

// Store is the shared plumbing every entity repository embeds.
type Store struct {
	client sheets.Client
	cache  *cache.Cache
	ttl    time.Duration
	log    *zap.Logger
}

func NewStore(client sheets.Client, c *cache.Cache, ttl time.Duration, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{client: client, cache: c, ttl: ttl, log: log}
}

func cacheKey(workbook, sheet string) string { return workbook + ":" + sheet }

// Records returns the cached snapshot of a sheet, fetching on miss.
func (s *Store) Records(ctx context.Context, workbook, sheet string) ([]sheets.Record, error) {
	key := cacheKey(workbook, sheet)
	if v, ok := s.cache.Get(key); ok {
		return v.([]sheets.Record), nil
	}

	ws, err := s.Worksheet(ctx, workbook, sheet)
	if err != nil {
		return nil, err
	}
	records, err := ws.GetAllRecords(ctx)
	if err != nil {
		return nil, err
	}
	s.cache.Set(key, records, s.ttl)
	return records, nil
}

// Worksheet opens a sheet handle, bypassing the cache. Writers and
// cell-level readers use this.
func (s *Store) Worksheet(ctx context.Context, workbook, sheet string) (sheets.Worksheet, error) {
	wb, err := s.client.Open(ctx, workbook)
	if err != nil {
		return nil, err
	}
	return wb.Sheet(sheet)
}

// InvalidateWorkbook flushes every cached sheet of a workbook.
func (s *Store) InvalidateWorkbook(workbook string) {
	s.cache.InvalidatePattern(workbook + ":")
}

// AppendRow appends and invalidates the workbook.
func (s *Store) AppendRow(ctx context.Context, workbook, sheet string, values []string) error {
	ws, err := s.Worksheet(ctx, workbook, sheet)
	if err != nil {
		return err
	}
	if err := ws.AppendRow(ctx, values); err != nil {
		return err
	}
	s.InvalidateWorkbook(workbook)
	return nil
}

// DeleteRowByID finds the row holding id and deletes it.
func (s *Store) DeleteRowByID(ctx context.Context, workbook, sheet, id string) error {
	ws, err := s.Worksheet(ctx, workbook, sheet)
	if err != nil {
		return err
	}
	ref, err := ws.Find(ctx, id)
	if err != nil {
		return err
	}
	if ref == nil {
		return apperr.New(apperr.InvalidInput, "kayıt bulunamadı: "+id)
	}
	if err := ws.DeleteRow(ctx, ref.Row); err != nil {
		return err
	}
	s.InvalidateWorkbook(workbook)
	return nil
}

// UpdateByID writes the changed columns of the row identified by id.
// Partial failure leaves already-written cells committed; the workbook is
// invalidated in every outcome so readers refetch whatever state remains.
func (s *Store) UpdateByID(ctx context.Context, workbook, sheet, id string, changes map[string]string) error {
	ws, err := s.Worksheet(ctx, workbook, sheet)
	if err != nil {
		return err
	}
	ref, err := ws.Find(ctx, id)
	if err != nil {
		return err
	}
	if ref == nil {
		return apperr.New(apperr.InvalidInput, "kayıt bulunamadı: "+id)
	}
	header, err := ws.HeaderRow(ctx)
	if err != nil {
		return err
	}

	defer s.InvalidateWorkbook(workbook)

	for column, value := range changes {
		col := sheets.ColumnIndex(header, column)
		if col == 0 {
			s.log.Warn("update skips unknown column",
				zap.String("workbook", workbook),
				zap.String("sheet", sheet),
				zap.String("column", column))
			continue
		}
		if err := ws.UpdateCell(ctx, ref.Row, col, value); err != nil {
			return err
		}
	}
	return nil
}
