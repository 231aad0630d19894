// Package ui is the interactive terminal catalog browser.
package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"

	"tontonin/internal/catalog"
	"tontonin/internal/source"
	"tontonin/internal/translate"
	"tontonin/internal/view"
)

// Backend is the part of the aggregator the browser needs.
type Backend interface {
	Sources() []catalog.SourceTag
	FetchAllLatest(ctx context.Context, page int) map[catalog.SourceTag]catalog.Page[catalog.CatalogItem]
	SearchAll(ctx context.Context, query string) map[catalog.SourceTag][]catalog.CatalogItem
	Detail(ctx context.Context, tag catalog.SourceTag, id string) (*catalog.DetailRecord, error)
}

// Options tune the browser.
type Options struct {
	PerSource  int
	Lang       string
	Filter     string // initial tab: "all", "a", "b" or "c"
	Translator *translate.Translator
}

type screen int

const (
	screenList screen = iota
	screenInput
	screenDetail
)

type mode int

const (
	modeLatest mode = iota
	modeSearch
)

// Sequencer slots. Latest and search results share the list, so they share a slot.
const (
	slotResults = "results"
	slotDetail  = "detail"
)

type latestMsg struct {
	ticket view.Ticket
	page   int
	pages  map[catalog.SourceTag]catalog.Page[catalog.CatalogItem]
}

type searchMsg struct {
	ticket  view.Ticket
	query   string
	results map[catalog.SourceTag][]catalog.CatalogItem
}

type detailMsg struct {
	ticket view.Ticket
	rec    *catalog.DetailRecord
	err    error
}

// Model is the bubbletea model for the browser.
type Model struct {
	ctx     context.Context
	backend Backend
	opts    Options
	seq     *view.Sequencer
	keys    keyMap

	list    list.Model
	input   textinput.Model
	spinner spinner.Model
	help    help.Model

	screen     screen
	mode       mode
	filters    []view.Filter
	filter     int
	page       int
	totalPages int
	query      string
	results    map[catalog.SourceTag][]catalog.CatalogItem
	detail     *catalog.DetailRecord
	loading    bool
	status     string
	failed     bool

	width, height int
}

// New creates the browser model. The first page of latest uploads is
// requested by Init.
func New(ctx context.Context, backend Backend, opts Options) Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	in := textinput.New()
	in.Placeholder = "search titles"
	in.Prompt = "/ "
	in.CharLimit = 100

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	filters := []view.Filter{view.All}
	for _, tag := range backend.Sources() {
		filters = append(filters, view.Only(tag))
	}
	initial, err := view.ParseFilter(opts.Filter)
	if err != nil {
		initial = view.All
	}
	_, current, ok := lo.FindIndexOf(filters, func(f view.Filter) bool {
		return f == initial
	})
	if !ok {
		current = 0
	}

	return Model{
		ctx:     ctx,
		backend: backend,
		opts:    opts,
		seq:     view.NewSequencer(),
		keys:    newKeyMap(),
		list:    l,
		input:   in,
		spinner: sp,
		help:    help.New(),
		filters: filters,
		filter:  current,
		page:    1,
		loading: true,
		results: map[catalog.SourceTag][]catalog.CatalogItem{},
	}
}

// Run starts the browser on the terminal and blocks until it exits.
func Run(ctx context.Context, backend Backend, opts Options) error {
	p := tea.NewProgram(New(ctx, backend, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetchLatest(1))
}

func (m Model) fetchLatest(page int) tea.Cmd {
	t := m.seq.Issue(slotResults)
	ctx, backend, tr, lang := m.ctx, m.backend, m.opts.Translator, m.opts.Lang
	return func() tea.Msg {
		pages := backend.FetchAllLatest(ctx, page)
		for tag, p := range pages {
			p.Items = tr.Items(ctx, p.Items, lang)
			pages[tag] = p
		}
		return latestMsg{ticket: t, page: page, pages: pages}
	}
}

func (m Model) fetchSearch(query string) tea.Cmd {
	t := m.seq.Issue(slotResults)
	ctx, backend, tr, lang := m.ctx, m.backend, m.opts.Translator, m.opts.Lang
	return func() tea.Msg {
		results := backend.SearchAll(ctx, query)
		for tag, items := range results {
			results[tag] = tr.Items(ctx, items, lang)
		}
		return searchMsg{ticket: t, query: query, results: results}
	}
}

func (m Model) fetchDetail(item catalog.CatalogItem) tea.Cmd {
	t := m.seq.Issue(slotDetail)
	ctx, backend, tr, lang := m.ctx, m.backend, m.opts.Translator, m.opts.Lang
	return func() tea.Msg {
		rec, err := backend.Detail(ctx, item.Source, item.ID)
		if err == nil {
			rec = tr.Detail(ctx, rec, lang)
		}
		return detailMsg{ticket: t, rec: rec, err: err}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, max(msg.Height-8, 3))
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case latestMsg:
		if !m.seq.Current(msg.ticket) {
			return m, nil
		}
		m.loading = false
		m.mode = modeLatest
		m.query = ""
		m.page = msg.page
		m.totalPages = 1
		m.results = make(map[catalog.SourceTag][]catalog.CatalogItem, len(msg.pages))
		for tag, p := range msg.pages {
			m.results[tag] = p.Items
			m.totalPages = max(m.totalPages, p.TotalPages)
		}
		m.status, m.failed = "", false
		m.refresh()
		return m, nil

	case searchMsg:
		if !m.seq.Current(msg.ticket) {
			return m, nil
		}
		m.loading = false
		m.mode = modeSearch
		m.query = msg.query
		m.results = msg.results
		m.status, m.failed = "", false
		m.refresh()
		return m, nil

	case detailMsg:
		if !m.seq.Current(msg.ticket) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.status, m.failed = detailError(msg.err), true
			return m, nil
		}
		m.detail = msg.rec
		m.screen = screenDetail
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenInput:
		switch {
		case key.Matches(msg, m.keys.back):
			m.screen = screenList
			m.input.Blur()
			return m, nil
		case key.Matches(msg, m.keys.submit):
			q := strings.TrimSpace(m.input.Value())
			if !source.SearchableQuery(q) {
				m.status, m.failed = fmt.Sprintf("type at least %d characters", source.MinQueryLength), false
				return m, nil
			}
			m.screen = screenList
			m.input.Blur()
			m.loading = true
			m.status = ""
			return m, m.fetchSearch(q)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd

	case screenDetail:
		switch {
		case key.Matches(msg, m.keys.back), msg.String() == "backspace":
			m.screen = screenList
			m.seq.Issue(slotDetail)
			return m, nil
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.search):
		m.screen = screenInput
		m.input.SetValue(m.query)
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.nextTab):
		m.filter = (m.filter + 1) % len(m.filters)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.prevTab):
		m.filter = (m.filter + len(m.filters) - 1) % len(m.filters)
		m.refresh()
		return m, nil

	case key.Matches(msg, m.keys.nextPage):
		if m.mode != modeLatest || m.page >= m.totalPages {
			return m, nil
		}
		m.loading = true
		return m, m.fetchLatest(m.page + 1)

	case key.Matches(msg, m.keys.prevPage):
		if m.mode != modeLatest || m.page <= 1 {
			return m, nil
		}
		m.loading = true
		return m, m.fetchLatest(m.page - 1)

	case key.Matches(msg, m.keys.back):
		if m.mode == modeSearch {
			m.loading = true
			return m, m.fetchLatest(1)
		}
		return m, nil

	case key.Matches(msg, m.keys.open):
		it, ok := m.list.SelectedItem().(listItem)
		if !ok {
			return m, nil
		}
		m.loading = true
		return m, m.fetchDetail(it.item)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// refresh rebuilds the list from the cached results and the active tab.
func (m *Model) refresh() {
	sel := view.Select(m.results, m.filters[m.filter], m.opts.PerSource)
	items := make([]list.Item, 0, len(sel.Items))
	for _, it := range sel.Items {
		items = append(items, listItem{item: it})
	}
	m.list.SetItems(items)
	m.list.ResetSelected()
	switch {
	case len(items) == 0:
		m.status, m.failed = "no results", false
	case m.status == "no results":
		m.status = ""
	}
}

// Selected returns the items currently shown.
func (m Model) Selected() []catalog.CatalogItem {
	return lo.FilterMap(m.list.Items(), func(it list.Item, _ int) (catalog.CatalogItem, bool) {
		li, ok := it.(listItem)
		return li.item, ok
	})
}

func detailError(err error) string {
	if errors.Is(err, catalog.ErrNotFound) {
		return "title no longer available"
	}
	return "could not load details: " + err.Error()
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("tontonin"))
	b.WriteString("  ")
	b.WriteString(m.heading())
	b.WriteString("\n\n")

	switch m.screen {
	case screenDetail:
		b.WriteString(m.viewDetail())
	default:
		b.WriteString(m.viewTabs())
		b.WriteString("\n")
		if m.screen == screenInput {
			b.WriteString(m.input.View())
			b.WriteString("\n")
		}
		b.WriteString(m.list.View())
	}

	b.WriteString("\n")
	switch {
	case m.loading:
		b.WriteString(m.spinner.View() + " loading")
	case m.status != "" && m.failed:
		b.WriteString(errorStyle.Render(m.status))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	return paddingStyle.Render(b.String())
}

func (m Model) heading() string {
	if m.mode == modeSearch {
		return faintStyle.Render(fmt.Sprintf("search: %q", m.query))
	}
	return faintStyle.Render(fmt.Sprintf("latest · page %d/%d", m.page, m.totalPages))
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, len(m.filters))
	for i, f := range m.filters {
		label := strings.TrimPrefix(f.String(), "source-")
		label = strings.ToUpper(label[:1]) + label[1:]
		if i == m.filter {
			tabs = append(tabs, activeTabStyle.Render(label))
		} else {
			tabs = append(tabs, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewDetail() string {
	d := m.detail
	if d == nil {
		return ""
	}
	width := max(m.width-6, 40)

	lines := []string{
		lipgloss.NewStyle().Bold(true).Render(d.Item.Title),
		faintStyle.Render(listItem{item: d.Item}.Description()),
		"",
	}
	if d.Synopsis != "" {
		lines = append(lines, lipgloss.NewStyle().Width(width).Render(d.Synopsis), "")
	}
	if len(d.Episodes) == 0 {
		lines = append(lines, faintStyle.Render("no episodes listed"))
	}
	for i, ep := range d.Episodes {
		title := ep.Title
		if title == "" {
			title = fmt.Sprintf("Episode %d", i+1)
		}
		lines = append(lines, fmt.Sprintf("%2d. %s  %s", i+1, title, linkStyle.Render(ep.EmbedURL)))
	}
	return strings.Join(lines, "\n")
}
