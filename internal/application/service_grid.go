package application

import (
	"context"
	"fmt"

	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/grid"
)

// BuildGrid lays the events of the requested window out as rows x services. Without
// bounds the window defaults to six weeks either side of today. Events are fetched for
// the span the rows cover, so a week row that starts before the window is still complete.
func (s *Service) BuildGrid(ctx context.Context, q GridQuery) (Grid, error) {
	mode, err := grid.ParseViewMode(q.Mode)
	if err != nil {
		return Grid{}, err
	}
	order, err := grid.ParseOrder(q.Order)
	if err != nil {
		return Grid{}, err
	}

	today := s.nowFn()
	rng := grid.DefaultRange(today)
	if q.Start != "" || q.End != "" {
		if q.Start == "" || q.End == "" {
			return Grid{}, fmt.Errorf("%w: start and end must be provided together", domain.ErrValidation)
		}
		rng, err = domain.NewDateRange(q.Start, q.End)
		if err != nil {
			return Grid{}, err
		}
	}

	rows, err := grid.BuildRows(rng, mode, order)
	if err != nil {
		return Grid{}, err
	}
	services := s.ListServices(ctx)
	out := Grid{
		Range:      rng,
		Mode:       mode,
		Order:      order,
		Label:      grid.RangeLabel(rng),
		Services:   services,
		Rows:       make([]GridRow, 0, len(rows)),
		CurrentRow: grid.RowIndexFor(rows, domain.FormatDate(today)),
	}
	if len(rows) == 0 {
		return out, nil
	}

	span := coveredSpan(rows)
	buckets := grid.Bucket(s.ListEvents(ctx, &span))
	for _, row := range rows {
		cells := make([][]domain.TimelineEvent, 0, len(services))
		for _, svc := range services {
			cells = append(cells, buckets.Cell(row, svc.ServiceID))
		}
		out.Rows = append(out.Rows, GridRow{Row: row, Cells: cells})
	}
	return out, nil
}

func coveredSpan(rows []grid.Row) domain.DateRange {
	first, last := rows[0], rows[len(rows)-1]
	if first.Start.After(last.Start) {
		first, last = last, first
	}
	return domain.DateRange{Start: domain.FormatDate(first.Start), End: domain.FormatDate(last.End)}
}
