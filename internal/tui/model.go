// Package tui renders the timeline grid in the terminal and drives it through the HTTP API.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/inkinno/projects/internal/contracts"
	"github.com/inkinno/projects/internal/domain"
	"github.com/inkinno/projects/internal/timeline"
)

// Backend is the subset of the API client the terminal view needs.
type Backend interface {
	Timeline(ctx context.Context, rng domain.DateRange, mode, order string) (contracts.GridResponse, error)
	CreateService(ctx context.Context) (contracts.ServiceResponse, error)
	UpdateService(ctx context.Context, serviceID string, req contracts.UpdateServiceRequest) (contracts.ServiceResponse, error)
	DeleteService(ctx context.Context, serviceID string) (contracts.DeleteServiceResponse, error)
	CreateEvent(ctx context.Context, req contracts.CreateEventRequest) (contracts.EventResponse, error)
}

type gridMsg struct {
	ticket timeline.Ticket
	grid   contracts.GridResponse
	err    error
}

type submitMsg struct {
	err error
}

type mutationMsg struct {
	title string
	err   error
}

type inputMode int

const (
	modeBrowse inputMode = iota
	modeAddEvent
	modeEditService
	modeConfirmDelete
)

const (
	fieldDate = iota
	fieldTitle
	fieldContent
)

const (
	fieldName = iota
	fieldEmoji
)

const labelWidth = 30

type Model struct {
	ctx     context.Context
	backend Backend
	view    *timeline.View
	keys    keyMap
	help    help.Model

	mode          inputMode
	inputs        []textinput.Model
	focus         int
	inputErr      string
	editServiceID string

	row, col      int
	offset        int
	width, height int
}

func New(ctx context.Context, backend Backend, today time.Time) Model {
	return Model{
		ctx:     ctx,
		backend: backend,
		view:    timeline.NewView(today),
		keys:    defaultKeyMap(),
		help:    help.New(),
		width:   120,
		height:  32,
	}
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, backend Backend, today time.Time) error {
	p := tea.NewProgram(New(ctx, backend, today), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return m.fetch(m.view.Refresh())
}

func (m Model) fetch(t timeline.Ticket) tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		g, err := backend.Timeline(ctx, t.Range, string(t.Mode), string(t.Order))
		return gridMsg{ticket: t, grid: g, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.keepRowVisible()
		return m, nil
	case gridMsg:
		if msg.err != nil {
			m.view.Fail(msg.ticket, msg.err)
			return m, nil
		}
		if m.view.Apply(msg.ticket, msg.grid) {
			m.clampCursor()
			if m.view.ShouldScroll() {
				m.scrollToCurrent()
			}
		}
		return m, nil
	case submitMsg:
		m.view.EndSubmit(msg.err)
		if msg.err != nil {
			return m, nil
		}
		m.closeInputs()
		return m, m.fetch(m.view.Refresh())
	case mutationMsg:
		if msg.err != nil {
			m.view.Notify(timeline.NoticeError, msg.title, msg.err.Error())
			return m, nil
		}
		m.view.Notify(timeline.NoticeInfo, msg.title, "")
		return m, m.fetch(m.view.Refresh())
	case tea.KeyMsg:
		switch m.mode {
		case modeAddEvent:
			return m.updateAddEvent(msg)
		case modeEditService:
			return m.updateEditService(msg)
		case modeConfirmDelete:
			return m.updateConfirmDelete(msg)
		default:
			return m.updateBrowse(msg)
		}
	}
	if len(m.inputs) > 0 {
		return m.updateInputs(msg)
	}
	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.view.ClearNotice()
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		m.moveRow(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveRow(1)
	case key.Matches(msg, m.keys.Left):
		m.moveCol(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCol(1)
	case key.Matches(msg, m.keys.Previous):
		ticket, err := m.view.Previous()
		if err != nil {
			m.view.Notify(timeline.NoticeError, "Could not move window", err.Error())
			return m, nil
		}
		return m, m.fetch(ticket)
	case key.Matches(msg, m.keys.Next):
		ticket, err := m.view.Next()
		if err != nil {
			m.view.Notify(timeline.NoticeError, "Could not move window", err.Error())
			return m, nil
		}
		return m, m.fetch(ticket)
	case key.Matches(msg, m.keys.ToggleMode):
		return m, m.fetch(m.view.ToggleMode())
	case key.Matches(msg, m.keys.ToggleOrder):
		return m, m.fetch(m.view.ToggleOrder())
	case key.Matches(msg, m.keys.Refresh):
		return m, m.fetch(m.view.Refresh())
	case key.Matches(msg, m.keys.AddService):
		return m, m.createService()
	case key.Matches(msg, m.keys.AddEvent):
		return m.openAddEvent()
	case key.Matches(msg, m.keys.EditService):
		return m.openEditService()
	case key.Matches(msg, m.keys.Delete):
		if _, ok := m.selectedService(); ok {
			m.mode = modeConfirmDelete
		}
	}
	return m, nil
}

func (m Model) openAddEvent() (tea.Model, tea.Cmd) {
	g := m.view.Grid()
	svc, ok := m.selectedService()
	if g == nil || !ok || m.row >= len(g.Rows) {
		m.view.Notify(timeline.NoticeInfo, "Add a service first", "press n to create one")
		return m, nil
	}
	row := g.Rows[m.row]
	m.view.OpenModal(row.Start, svc.ID)

	date := newInput("Date", "YYYY-MM-DD", 10)
	date.SetValue(row.Start)
	title := newInput("Title", "What happened?", 200)
	content := newInput("Details", "At least a few words", 2000)
	m.inputs = []textinput.Model{date, title, content}
	m.inputErr = ""
	m.mode = modeAddEvent
	cmd := m.focusInput(fieldTitle)
	return m, cmd
}

func (m Model) updateAddEvent(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	modal, open := m.view.Modal()
	switch msg.String() {
	case "esc":
		if open && modal.Submitting {
			return m, nil
		}
		m.view.CloseModal()
		m.closeInputs()
		return m, nil
	case "tab", "shift+tab":
		step := 1
		if msg.String() == "shift+tab" {
			step = len(m.inputs) - 1
		}
		cmd := m.focusInput((m.focus + step) % len(m.inputs))
		return m, cmd
	case "enter":
		if !open {
			m.closeInputs()
			return m, nil
		}
		req := contracts.CreateEventRequest{
			ServiceID: modal.ServiceID,
			Date:      strings.TrimSpace(m.inputs[fieldDate].Value()),
			Title:     strings.TrimSpace(m.inputs[fieldTitle].Value()),
			Content:   strings.TrimSpace(m.inputs[fieldContent].Value()),
		}
		if err := validateEvent(req); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		if !m.view.BeginSubmit() {
			return m, nil
		}
		m.inputErr = ""
		backend, ctx := m.backend, m.ctx
		return m, func() tea.Msg {
			_, err := backend.CreateEvent(ctx, req)
			return submitMsg{err: err}
		}
	}
	if open && modal.Submitting {
		return m, nil
	}
	return m.updateInputs(msg)
}

func validateEvent(req contracts.CreateEventRequest) error {
	if _, err := domain.ParseDate(req.Date); err != nil {
		return err
	}
	if err := domain.ValidateEventTitle(req.Title); err != nil {
		return err
	}
	return domain.ValidateEventContent(req.Content)
}

func (m Model) openEditService() (tea.Model, tea.Cmd) {
	svc, ok := m.selectedService()
	if !ok {
		return m, nil
	}
	name := newInput("Name", "Service name", 80)
	name.SetValue(svc.Name)
	emoji := newInput("Emoji", "🚀", 8)
	emoji.SetValue(svc.Emoji)
	m.inputs = []textinput.Model{name, emoji}
	m.inputErr = ""
	m.editServiceID = svc.ID
	m.mode = modeEditService
	cmd := m.focusInput(fieldName)
	return m, cmd
}

func (m Model) updateEditService(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.closeInputs()
		return m, nil
	case "tab", "shift+tab":
		cmd := m.focusInput((m.focus + 1) % len(m.inputs))
		return m, cmd
	case "enter":
		req := contracts.UpdateServiceRequest{
			Name:  strings.TrimSpace(m.inputs[fieldName].Value()),
			Emoji: strings.TrimSpace(m.inputs[fieldEmoji].Value()),
		}
		if err := domain.ValidateServiceName(req.Name); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		if err := domain.ValidateEmoji(req.Emoji); err != nil {
			m.inputErr = err.Error()
			return m, nil
		}
		serviceID := m.editServiceID
		m.closeInputs()
		backend, ctx := m.backend, m.ctx
		return m, func() tea.Msg {
			_, err := backend.UpdateService(ctx, serviceID, req)
			return mutationMsg{title: "Service updated", err: err}
		}
	}
	return m.updateInputs(msg)
}

func (m Model) updateConfirmDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	m.mode = modeBrowse
	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}
	svc, ok := m.selectedService()
	if !ok {
		return m, nil
	}
	backend, ctx := m.backend, m.ctx
	return m, func() tea.Msg {
		res, err := backend.DeleteService(ctx, svc.ID)
		if errors.Is(err, domain.ErrCascadeIncomplete) {
			err = fmt.Errorf("%w (%d events could not be removed)", err, len(res.SurvivingEventIDs))
		}
		return mutationMsg{title: "Service deleted", err: err}
	}
}

func (m Model) createService() tea.Cmd {
	backend, ctx := m.backend, m.ctx
	return func() tea.Msg {
		_, err := backend.CreateService(ctx)
		return mutationMsg{title: "Service added", err: err}
	}
}

func (m Model) updateInputs(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m *Model) focusInput(idx int) tea.Cmd {
	m.focus = idx
	var cmd tea.Cmd
	for i := range m.inputs {
		if i == idx {
			cmd = m.inputs[i].Focus()
			continue
		}
		m.inputs[i].Blur()
	}
	return cmd
}

func (m *Model) closeInputs() {
	m.inputs = nil
	m.focus = 0
	m.inputErr = ""
	m.editServiceID = ""
	m.mode = modeBrowse
}

func newInput(prompt, placeholder string, limit int) textinput.Model {
	ti := textinput.New()
	ti.Prompt = fmt.Sprintf("%-8s> ", prompt)
	ti.Placeholder = placeholder
	ti.CharLimit = limit
	return ti
}

func (m Model) selectedService() (contracts.ServiceResponse, bool) {
	g := m.view.Grid()
	if g == nil || m.col < 0 || m.col >= len(g.Services) {
		return contracts.ServiceResponse{}, false
	}
	return g.Services[m.col], true
}

func (m *Model) moveRow(delta int) {
	m.row += delta
	m.clampCursor()
	m.keepRowVisible()
}

func (m *Model) moveCol(delta int) {
	m.col += delta
	m.clampCursor()
}

func (m *Model) clampCursor() {
	g := m.view.Grid()
	if g == nil {
		m.row, m.col = 0, 0
		return
	}
	m.row = clamp(m.row, 0, len(g.Rows)-1)
	m.col = clamp(m.col, 0, len(g.Services)-1)
}

// scrollToCurrent puts the row containing today at the top of the viewport.
func (m *Model) scrollToCurrent() {
	g := m.view.Grid()
	if g == nil || g.CurrentRow < 0 || g.CurrentRow >= len(g.Rows) {
		return
	}
	m.row = g.CurrentRow
	m.offset = g.CurrentRow
	maxOffset := len(g.Rows) - m.visibleRows()
	m.offset = clamp(m.offset, 0, maxOffset)
}

func (m *Model) keepRowVisible() {
	visible := m.visibleRows()
	if m.row < m.offset {
		m.offset = m.row
	}
	if m.row >= m.offset+visible {
		m.offset = m.row - visible + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) visibleRows() int {
	rows := m.height - 14
	if rows < 3 {
		rows = 3
	}
	return rows
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
