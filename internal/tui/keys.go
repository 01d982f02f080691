package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	Previous    key.Binding
	Next        key.Binding
	ToggleMode  key.Binding
	ToggleOrder key.Binding
	Refresh     key.Binding
	AddEvent    key.Binding
	AddService  key.Binding
	EditService key.Binding
	Delete      key.Binding
	Quit        key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev service")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next service")),
		Previous:    key.NewBinding(key.WithKeys("["), key.WithHelp("[", "load earlier")),
		Next:        key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "load later")),
		ToggleMode:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "week/day")),
		ToggleOrder: key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "order")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		AddEvent:    key.NewBinding(key.WithKeys("a", "enter"), key.WithHelp("a", "add event")),
		AddService:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new service")),
		EditService: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit service")),
		Delete:      key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete service")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Previous, k.Next, k.ToggleMode, k.AddEvent, k.AddService, k.EditService, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Previous, k.Next, k.ToggleMode, k.ToggleOrder, k.Refresh},
		{k.AddEvent, k.AddService, k.EditService, k.Delete, k.Quit},
	}
}
