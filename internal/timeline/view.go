// Package timeline keeps the client-side state of the timeline grid: the visible window,
// in-flight fetch tracking, the add-event modal and user notifications.
package timeline

import (
	"time"

	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/grid"
)

// Ticket identifies one fetch. Only the most recently issued ticket may be applied.
type Ticket struct {
	Generation uint64
	Range      domain.DateRange
	Mode       grid.ViewMode
	Order      grid.Order
}

type NoticeKind string

const (
	NoticeInfo  NoticeKind = "info"
	NoticeError NoticeKind = "error"
)

type Notice struct {
	Kind    NoticeKind
	Title   string
	Message string
}

type Modal struct {
	Date       string
	ServiceID  string
	Submitting bool
}

type View struct {
	rng        domain.DateRange
	mode       grid.ViewMode
	order      grid.Order
	generation uint64
	fetching   bool
	scroll     bool
	grid       *contracts.GridResponse
	modal      *Modal
	notice     *Notice
}

func NewView(today time.Time) *View {
	return &View{
		rng:   grid.DefaultRange(today),
		mode:  grid.ModeWeek,
		order: grid.OrderAsc,
	}
}

func (v *View) Range() domain.DateRange { return v.rng }
func (v *View) Mode() grid.ViewMode     { return v.mode }
func (v *View) Order() grid.Order       { return v.order }
func (v *View) Fetching() bool          { return v.fetching }

// Grid returns the last applied grid, or nil before the first fetch completes.
func (v *View) Grid() *contracts.GridResponse { return v.grid }

// Refresh issues a ticket for the current window. Any earlier ticket becomes stale.
func (v *View) Refresh() Ticket {
	v.generation++
	v.fetching = true
	return Ticket{Generation: v.generation, Range: v.rng, Mode: v.mode, Order: v.order}
}

// Previous extends the window three months into the past and refetches all of it.
func (v *View) Previous() (Ticket, error) {
	return v.shift(grid.Previous)
}

// Next extends the window three months into the future and refetches all of it.
func (v *View) Next() (Ticket, error) {
	return v.shift(grid.Next)
}

func (v *View) shift(dir grid.Direction) (Ticket, error) {
	rng, err := grid.ShiftRange(v.rng, dir)
	if err != nil {
		return Ticket{}, err
	}
	v.rng = rng
	return v.Refresh(), nil
}

func (v *View) ToggleMode() Ticket {
	if v.mode == grid.ModeWeek {
		v.mode = grid.ModeDay
	} else {
		v.mode = grid.ModeWeek
	}
	return v.Refresh()
}

func (v *View) ToggleOrder() Ticket {
	if v.order == grid.OrderAsc {
		v.order = grid.OrderDesc
	} else {
		v.order = grid.OrderAsc
	}
	return v.Refresh()
}

// Apply stores a fetched grid if it belongs to the latest ticket and reports whether it
// was accepted. Stale results are dropped.
func (v *View) Apply(t Ticket, g contracts.GridResponse) bool {
	if t.Generation != v.generation {
		return false
	}
	v.grid = &g
	v.fetching = false
	v.scroll = true
	return true
}

// Fail ends the latest fetch with an error notice. Stale failures are ignored.
func (v *View) Fail(t Ticket, err error) bool {
	if t.Generation != v.generation {
		return false
	}
	v.fetching = false
	v.Notify(NoticeError, "Could not load timeline", err.Error())
	return true
}

// ShouldScroll is true exactly once after each applied fetch.
func (v *View) ShouldScroll() bool {
	if !v.scroll {
		return false
	}
	v.scroll = false
	return true
}

func (v *View) OpenModal(date, serviceID string) {
	v.modal = &Modal{Date: date, ServiceID: serviceID}
}

func (v *View) Modal() (Modal, bool) {
	if v.modal == nil {
		return Modal{}, false
	}
	return *v.modal, true
}

func (v *View) CloseModal() {
	v.modal = nil
}

// BeginSubmit marks the modal as submitting. It returns false when there is no modal or
// a submission is already in flight.
func (v *View) BeginSubmit() bool {
	if v.modal == nil || v.modal.Submitting {
		return false
	}
	v.modal.Submitting = true
	return true
}

// EndSubmit closes the modal on success. On failure the modal stays open with its input
// intact so the user can retry.
func (v *View) EndSubmit(err error) {
	if v.modal == nil {
		return
	}
	if err != nil {
		v.modal.Submitting = false
		v.Notify(NoticeError, "Could not add event", err.Error())
		return
	}
	v.modal = nil
	v.Notify(NoticeInfo, "Event added", "")
}

func (v *View) Notify(kind NoticeKind, title, message string) {
	v.notice = &Notice{Kind: kind, Title: title, Message: message}
}

func (v *View) Notice() (Notice, bool) {
	if v.notice == nil {
		return Notice{}, false
	}
	return *v.notice, true
}

func (v *View) ClearNotice() {
	v.notice = nil
}
