package fhsz

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/radkit/radpersonel/repo"
)

// =============================================================================
// ENGINE - annual summary and monthly cumulative projections
// =============================================================================

// Engine reads puantaj rows through the repository layer and projects
// them into entitlement reports. Nothing here is stored; every report is
// derived from the timesheet rows on demand.
type Engine struct {
	puantaj *repo.PuantajRepo
}

func NewEngine(puantaj *repo.PuantajRepo) *Engine {
	return &Engine{puantaj: puantaj}
}

// AnnualRow is one personnel's totals for a year.
type AnnualRow struct {
	TC              string
	FullName        string
	ServiceClass    string
	TotalHours      decimal.Decimal
	PresentDays     int
	LeaveDays       int
	CumulativeHours decimal.Decimal
	EntitledDays    int
}

// MonthlyRow is one personnel's running position at a given month.
type MonthlyRow struct {
	TC              string
	FullName        string
	Month           int
	MonthHours      decimal.Decimal
	CumulativeHours decimal.Decimal
	EntitledDays    int
}

// monthEntry is one parsed puantaj row.
type monthEntry struct {
	month   int
	hours   decimal.Decimal
	present int
	leave   int
}

type personSeries struct {
	tc       string
	name     string
	class    string
	months   []monthEntry
}

// load groups the year's rows by personnel, months sorted ascending.
func (e *Engine) load(ctx context.Context, year int) ([]*personSeries, error) {
	rows, err := e.puantaj.Rows(ctx)
	if err != nil {
		return nil, err
	}

	byTC := make(map[string]*personSeries)
	var order []string

	for _, rec := range rows {
		if parseInt(resolve(rec, aliasYear)) != year {
			continue
		}
		month := parseInt(resolve(rec, aliasMonth))
		if month < 1 || month > 12 {
			continue
		}
		tc := resolve(rec, aliasTC)
		if tc == "" {
			continue
		}

		series, ok := byTC[tc]
		if !ok {
			series = &personSeries{
				tc:    tc,
				name:  resolve(rec, aliasName),
				class: resolve(rec, aliasClass),
			}
			byTC[tc] = series
			order = append(order, tc)
		}
		series.months = append(series.months, monthEntry{
			month:   month,
			hours:   ParseHours(resolve(rec, aliasHours)),
			present: parseInt(resolve(rec, aliasPresent)),
			leave:   parseInt(resolve(rec, aliasLeave)),
		})
	}

	out := make([]*personSeries, 0, len(order))
	for _, tc := range order {
		series := byTC[tc]
		sort.Slice(series.months, func(i, j int) bool {
			return series.months[i].month < series.months[j].month
		})
		out = append(out, series)
	}
	return out, nil
}

// AnnualSummary totals each personnel's year: hours, attendance, leave,
// and the entitlement the cumulative total earns.
func (e *Engine) AnnualSummary(ctx context.Context, year int) ([]AnnualRow, error) {
	people, err := e.load(ctx, year)
	if err != nil {
		return nil, err
	}

	rows := make([]AnnualRow, 0, len(people))
	for _, p := range people {
		total := decimal.Zero
		present, leave := 0, 0
		for _, m := range p.months {
			total = total.Add(m.hours)
			present += m.present
			leave += m.leave
		}
		rows = append(rows, AnnualRow{
			TC:              p.tc,
			FullName:        p.name,
			ServiceClass:    p.class,
			TotalHours:      total,
			PresentDays:     present,
			LeaveDays:       leave,
			CumulativeHours: total,
			EntitledDays:    EntitledDays(total),
		})
	}
	return rows, nil
}

// MonthlyCumulative reports each personnel's running sum through month,
// filtered to personnel that have a row for that month.
func (e *Engine) MonthlyCumulative(ctx context.Context, year, month int) ([]MonthlyRow, error) {
	people, err := e.load(ctx, year)
	if err != nil {
		return nil, err
	}

	var rows []MonthlyRow
	for _, p := range people {
		running := decimal.Zero
		var atMonth *MonthlyRow
		for _, m := range p.months {
			if m.month > month {
				break
			}
			running = running.Add(m.hours)
			if m.month == month {
				atMonth = &MonthlyRow{
					TC:         p.tc,
					FullName:   p.name,
					Month:      month,
					MonthHours: m.hours,
				}
			}
		}
		if atMonth != nil {
			atMonth.CumulativeHours = running
			atMonth.EntitledDays = EntitledDays(running)
			rows = append(rows, *atMonth)
		}
	}
	return rows, nil
}
