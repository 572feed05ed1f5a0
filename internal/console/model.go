// Package console is a terminal admin client for the OpsHub API. It binds the
// generic management layer to a bubbletea table: debounced search, page keys,
// status toggling and delete-with-confirm all flow through pkg/manage, so the
// console exercises exactly the behavior the web panels rely on.
package console

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"opshub/pkg/manage"
)

// Options configures a console session.
type Options struct {
	Server   string
	Token    string
	Resource string
	PageSize int
}

type mode int

const (
	modeTable mode = iota
	modeSearch
	modeConfirm
)

type (
	loadedMsg        struct{}
	actionDoneMsg    struct{}
	searchSettledMsg struct{ query string }
)

// statusNotifier records the latest operation outcome for the status bar.
type statusNotifier struct {
	mu    sync.Mutex
	msg   string
	isErr bool
}

func (n *statusNotifier) Success(msg string) { n.set(msg, false) }
func (n *statusNotifier) Error(msg string)   { n.set(msg, true) }

func (n *statusNotifier) set(msg string, isErr bool) {
	n.mu.Lock()
	n.msg, n.isErr = msg, isErr
	n.mu.Unlock()
}

func (n *statusNotifier) last() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.msg, n.isErr
}

// approved satisfies the confirmation contract after the console has already
// asked the user interactively. Declining never reaches the orchestrator.
type approved struct{}

func (approved) Confirm(string) bool { return true }

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("77"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// Model is the bubbletea model for one resource panel.
type Model struct {
	def     ResourceDef
	fetcher *manage.Fetcher[record]
	orch    *manage.Orchestrator
	toggler *manage.Toggler
	notes   *statusNotifier

	tbl    table.Model
	search textinput.Model
	deb    *manage.Debouncer[string]
	// settled carries debounced search values into the update loop
	settled chan string

	mode    mode
	pending record // row awaiting delete confirmation
	rows    []record
	width   int
}

// New builds a console model for the named resource.
func New(opts Options) (*Model, error) {
	def, err := FindResource(opts.Resource)
	if err != nil {
		return nil, err
	}

	clientOpts := []manage.ClientOption{}
	if opts.Token != "" {
		clientOpts = append(clientOpts, manage.WithToken(opts.Token))
	}
	client := manage.NewClient(opts.Server, clientOpts...)

	notes := &statusNotifier{}
	fetcher := manage.NewFetcher[record](manage.FetcherConfig{
		Client:   client,
		Path:     def.Path,
		DataKey:  def.DataKey,
		PageSize: opts.PageSize,
	})

	// runs inside the command goroutine, so the refreshed page is committed
	// before the command's message reaches syncTable
	refresh := func() {
		fetcher.Refresh(context.Background())
	}

	m := &Model{
		def:     def,
		fetcher: fetcher,
		notes:   notes,
		settled: make(chan string, 1),
		orch: &manage.Orchestrator{
			Client:        client,
			Path:          def.Path,
			Notify:        notes,
			Confirm:       approved{},
			OnRefresh:     refresh,
			DeleteMessage: "record deleted",
		},
		toggler: &manage.Toggler{
			Client:    client,
			Path:      def.Path,
			Next:      def.Next,
			Notify:    notes,
			OnRefresh: refresh,
		},
	}

	m.deb = manage.NewDebouncer(300*time.Millisecond, m.queueSettled)

	cols := make([]table.Column, len(def.Columns))
	for i, c := range def.Columns {
		cols[i] = table.Column{Title: c.Label, Width: c.Width}
	}
	m.tbl = table.New(
		table.WithColumns(cols),
		table.WithFocused(true),
		table.WithHeight(opts.PageSize),
	)

	ti := textinput.New()
	ti.Placeholder = "search"
	ti.Prompt = "/ "
	ti.CharLimit = 80
	m.search = ti

	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), m.waitSettled())
}

// queueSettled hands a debounced search value to the update loop. When an
// older value is still queued it is replaced, so the loop only ever sees the
// newest one.
func (m *Model) queueSettled(q string) {
	for {
		select {
		case m.settled <- q:
			return
		case <-m.settled:
		}
	}
}

func (m *Model) loadCmd() tea.Cmd {
	return func() tea.Msg {
		m.fetcher.Load(context.Background())
		return loadedMsg{}
	}
}

func (m *Model) waitSettled() tea.Cmd {
	return func() tea.Msg {
		return searchSettledMsg{query: <-m.settled}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case loadedMsg, actionDoneMsg:
		m.syncTable()
		return m, nil

	case searchSettledMsg:
		cmd := func() tea.Msg {
			m.fetcher.SetFilters(context.Background(), map[string]string{"q": msg.query})
			return loadedMsg{}
		}
		return m, tea.Batch(cmd, m.waitSettled())

	case tea.KeyMsg:
		switch m.mode {
		case modeSearch:
			return m.updateSearch(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateTable(msg)
		}
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) updateTable(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.deb.Stop()
		return m, tea.Quit

	case "/":
		m.mode = modeSearch
		m.search.Focus()
		return m, textinput.Blink

	case "left", "h":
		page := m.fetcher.State().Page - 1
		return m, func() tea.Msg {
			m.fetcher.GoToPage(context.Background(), page)
			return loadedMsg{}
		}

	case "right", "l":
		page := m.fetcher.State().Page + 1
		return m, func() tea.Msg {
			m.fetcher.GoToPage(context.Background(), page)
			return loadedMsg{}
		}

	case "r":
		return m, m.loadCmd()

	case "t":
		rec, ok := m.selected()
		if !ok || m.def.StatusField == "" {
			return m, nil
		}
		id := rowID(rec)
		if m.toggler.Toggling(id) {
			m.notes.Error("toggle already in flight for this record")
			return m, nil
		}
		current := rec[m.def.StatusField]
		return m, func() tea.Msg {
			m.toggler.ToggleStatus(context.Background(), id, current)
			return actionDoneMsg{}
		}

	case "d":
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.pending = rec
		m.mode = modeConfirm
		return m, nil
	}

	var cmd tea.Cmd
	m.tbl, cmd = m.tbl.Update(msg)
	return m, cmd
}

func (m *Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeTable
		m.search.Blur()
		m.search.SetValue("")
		m.deb.Set("")
		return m, nil
	case "enter":
		m.mode = modeTable
		m.search.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.deb.Set(m.search.Value())
	return m, cmd
}

func (m *Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		rec := m.pending
		m.pending = nil
		m.mode = modeTable
		id := rowID(rec)
		return m, func() tea.Msg {
			m.orch.DeleteItem(context.Background(), id, "")
			return actionDoneMsg{}
		}
	case "n", "N", "esc":
		m.pending = nil
		m.mode = modeTable
		return m, nil
	}
	return m, nil
}

// selected returns the record under the cursor.
func (m *Model) selected() (record, bool) {
	i := m.tbl.Cursor()
	if i < 0 || i >= len(m.rows) {
		return nil, false
	}
	return m.rows[i], true
}

// syncTable projects the fetcher state into table rows.
func (m *Model) syncTable() {
	st := m.fetcher.State()
	m.rows = st.Data

	model := manage.TableModel[record]{Columns: m.def.Columns}
	rendered := model.Rows(st.Data)
	rows := make([]table.Row, len(rendered))
	for i, cells := range rendered {
		rows[i] = table.Row(cells)
	}
	m.tbl.SetRows(rows)
	if m.tbl.Cursor() >= len(rows) && len(rows) > 0 {
		m.tbl.SetCursor(len(rows) - 1)
	}
}

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("opshub · "+m.def.Name) + "\n")
	b.WriteString(borderStyle.Render(m.tbl.View()) + "\n")

	st := m.fetcher.State()
	info := fmt.Sprintf("page %d/%d · %d total", st.Page, max(st.TotalPages, 1), st.TotalCount)
	if st.Loading {
		info += " · loading..."
	}
	if q := st.Filters["q"]; q != "" {
		info += fmt.Sprintf(" · q=%q", q)
	}
	b.WriteString(statusStyle.Render(info) + "\n")

	if msg, isErr := m.notes.last(); msg != "" {
		if isErr {
			b.WriteString(errStyle.Render(msg) + "\n")
		} else {
			b.WriteString(okStyle.Render(msg) + "\n")
		}
	}
	if st.Err != nil {
		b.WriteString(errStyle.Render(st.Err.Error()) + "\n")
	}

	switch m.mode {
	case modeSearch:
		b.WriteString(m.search.View() + "\n")
	case modeConfirm:
		b.WriteString(errStyle.Render(fmt.Sprintf("delete record %s? (y/n)", rowID(m.pending))) + "\n")
	default:
		help := "←/→ page · / search · t toggle · d delete · r refresh · q quit"
		if m.def.StatusField == "" {
			help = "←/→ page · / search · d delete · r refresh · q quit"
		}
		b.WriteString(helpStyle.Render(help) + "\n")
	}

	return b.String()
}
