// Package grid turns a date range into timeline rows and buckets events into cells.
package grid

import (
	"fmt"
	"time"

	"github.com/inkinno/projects/internal/domain"
)

type ViewMode string

const (
	ModeWeek ViewMode = "week"
	ModeDay  ViewMode = "day"
)

type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

type Direction int

const (
	Previous Direction = iota
	Next
)

// NavigationStepMonths is how far one previous/next step extends the window.
const NavigationStepMonths = 3

// DefaultSpanWeeks is the distance from today to each bound of the initial window.
const DefaultSpanWeeks = 6

// MaxWindowDays bounds a single window, counting both ends. About ten years.
const MaxWindowDays = 3660

func ParseViewMode(v string) (ViewMode, error) {
	switch ViewMode(v) {
	case "", ModeWeek:
		return ModeWeek, nil
	case ModeDay:
		return ModeDay, nil
	default:
		return "", fmt.Errorf("%w: mode must be week or day", domain.ErrValidation)
	}
}

func ParseOrder(v string) (Order, error) {
	switch Order(v) {
	case "", OrderAsc:
		return OrderAsc, nil
	case OrderDesc:
		return OrderDesc, nil
	default:
		return "", fmt.Errorf("%w: order must be asc or desc", domain.ErrValidation)
	}
}

// Row is one line of the grid. Dates lists every calendar day the row aggregates.
type Row struct {
	Start time.Time
	End   time.Time
	Dates []string
	Label string
}

func (r Row) Key() string {
	return domain.FormatDate(r.Start)
}

func (r Row) Contains(date string) bool {
	for _, d := range r.Dates {
		if d == date {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns the Monday on or before t.
func StartOfWeek(t time.Time) time.Time {
	day := truncateDay(t)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// BuildRows covers [rng.Start, rng.End] without gaps or duplicates. In week mode the
// first row begins on the Monday on or before the range start.
func BuildRows(rng domain.DateRange, mode ViewMode, order Order) ([]Row, error) {
	start, err := domain.ParseDate(rng.Start)
	if err != nil {
		return nil, err
	}
	end, err := domain.ParseDate(rng.End)
	if err != nil {
		return nil, err
	}
	if err := checkSpan(start, end); err != nil {
		return nil, err
	}

	var rows []Row
	switch mode {
	case ModeDay:
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			rows = append(rows, Row{
				Start: d,
				End:   d,
				Dates: []string{domain.FormatDate(d)},
				Label: DayLabel(d),
			})
		}
	default:
		for w := StartOfWeek(start); !w.After(end); w = w.AddDate(0, 0, 7) {
			dates := make([]string, 0, 7)
			for i := 0; i < 7; i++ {
				dates = append(dates, domain.FormatDate(w.AddDate(0, 0, i)))
			}
			rows = append(rows, Row{
				Start: w,
				End:   w.AddDate(0, 0, 6),
				Dates: dates,
				Label: WeekLabel(w),
			})
		}
	}

	if order == OrderDesc {
		for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
			rows[i], rows[j] = rows[j], rows[i]
		}
	}
	return rows, nil
}

// WeekLabel renders "Nth week of Month, Year" where N = ceil(day-of-month / 7).
// This is deliberately not the ISO week number.
func WeekLabel(t time.Time) string {
	n := (t.Day() + 6) / 7
	return fmt.Sprintf("%d%s week of %s", n, ordinalSuffix(n), t.Format("January, 2006"))
}

func DayLabel(t time.Time) string {
	return t.Format("Mon, Jan 2 2006")
}

func ordinalSuffix(n int) string {
	switch n {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}

// RangeLabel renders the window header, e.g. "Jan 2024 - Mar 2024".
func RangeLabel(rng domain.DateRange) string {
	start, errStart := domain.ParseDate(rng.Start)
	end, errEnd := domain.ParseDate(rng.End)
	if errStart != nil || errEnd != nil {
		return ""
	}
	return start.Format("Jan 2006") + " - " + end.Format("Jan 2006")
}

// DefaultRange is today minus six weeks through today plus six weeks.
func DefaultRange(today time.Time) domain.DateRange {
	day := truncateDay(today)
	return domain.DateRange{
		Start: domain.FormatDate(day.AddDate(0, 0, -7*DefaultSpanWeeks)),
		End:   domain.FormatDate(day.AddDate(0, 0, 7*DefaultSpanWeeks)),
	}
}

// ShiftRange extends one bound of the window by NavigationStepMonths and keeps the other.
// It refuses to grow the window past MaxWindowDays.
func ShiftRange(rng domain.DateRange, dir Direction) (domain.DateRange, error) {
	start, err := domain.ParseDate(rng.Start)
	if err != nil {
		return domain.DateRange{}, err
	}
	end, err := domain.ParseDate(rng.End)
	if err != nil {
		return domain.DateRange{}, err
	}
	switch dir {
	case Previous:
		start = AddMonths(start, -NavigationStepMonths)
	case Next:
		end = AddMonths(end, NavigationStepMonths)
	}
	if err := checkSpan(start, end); err != nil {
		return domain.DateRange{}, err
	}
	return domain.DateRange{Start: domain.FormatDate(start), End: domain.FormatDate(end)}, nil
}

func checkSpan(start, end time.Time) error {
	if end.Before(start) {
		return nil
	}
	if days := int(end.Sub(start).Hours()/24) + 1; days > MaxWindowDays {
		return fmt.Errorf("%w: window spans %d days, at most %d allowed", domain.ErrValidation, days, MaxWindowDays)
	}
	return nil
}

// AddMonths clamps to the last day of the target month instead of overflowing,
// so 31 May minus three months is 28/29 February.
func AddMonths(t time.Time, months int) time.Time {
	day := truncateDay(t)
	firstOfTarget := time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	lastDay := firstOfTarget.AddDate(0, 1, -1).Day()
	d := day.Day()
	if d > lastDay {
		d = lastDay
	}
	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), d, 0, 0, 0, 0, time.UTC)
}

// RowIndexFor returns the index of the row covering date, or -1.
func RowIndexFor(rows []Row, date string) int {
	for i, row := range rows {
		if row.Contains(date) {
			return i
		}
	}
	return -1
}
