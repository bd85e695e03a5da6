// Package tui implements the interactive collection browser.
package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/Sternrassler/pokeapi-client/pkg/pagination"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// IndexFunc loads the full index of the browsed collection.
type IndexFunc func(ctx context.Context) ([]index.Entry, error)

// IndexMsg carries a loaded index (or the failure to load it).
type IndexMsg struct {
	Entries []index.Entry
	Err     error
}

// PageMsg carries the result of one hydration batch. Err is hydrate.ErrStale
// when the batch was superseded before it finished. Messages from older
// generations are dropped on arrival even without that error.
type PageMsg struct {
	View hydrate.View[fmt.Stringer]
	Err  error
}

// Model is the Bubble Tea model of the browser: a search box over a paged,
// hydrated list.
type Model struct {
	ctx        context.Context
	collection index.Collection
	loadIndex  IndexFunc
	browser    *hydrate.Browser[fmt.Stringer]

	input   textinput.Model
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	indexLoaded bool
	loading     bool
	err         error
	view        hydrate.View[fmt.Stringer]
	width       int
}

// New creates a browser model for collection.
func New(ctx context.Context, collection index.Collection, loadIndex IndexFunc, details hydrate.DetailFunc[fmt.Stringer], cfg hydrate.Config) Model {
	input := textinput.New()
	input.Placeholder = "search " + string(collection)
	input.Prompt = "/ "
	input.Focus()

	return Model{
		ctx:        ctx,
		collection: collection,
		loadIndex:  loadIndex,
		browser:    hydrate.NewBrowser(details, cfg),
		input:      input,
		spinner:    spinner.New(spinner.WithSpinner(spinner.Dot)),
		help:       help.New(),
		keys:       defaultKeyMap(),
		loading:    true,
	}
}

// Init starts loading the index.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchIndex(), m.spinner.Tick, textinput.Blink)
}

func (m Model) fetchIndex() tea.Cmd {
	return func() tea.Msg {
		entries, err := m.loadIndex(m.ctx)
		return IndexMsg{Entries: entries, Err: err}
	}
}

// load issues a hydration batch for the browser's current state.
func (m Model) load() tea.Cmd {
	b, ctx := m.browser, m.ctx
	return func() tea.Msg {
		v, err := b.Load(ctx)
		return PageMsg{View: v, Err: err}
	}
}

// Update handles incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case IndexMsg:
		if msg.Err != nil {
			m.loading = false
			m.err = msg.Err
			return m, nil
		}
		m.err = nil
		m.indexLoaded = true
		m.browser.SetIndex(msg.Entries)
		m.loading = true
		return m, m.load()

	case PageMsg:
		// A batch can pass the browser's generation check and still be
		// delivered after a newer one. Only the current generation is shown;
		// anything else keeps the previous page until the newest batch arrives.
		if errors.Is(msg.Err, hydrate.ErrStale) || msg.View.Generation != m.browser.State().Generation {
			return m, nil
		}
		m.view = msg.View
		m.loading = false
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Reload):
		m.loading = true
		m.err = nil
		return m, m.fetchIndex()

	case key.Matches(msg, m.keys.Prev):
		return m.gotoPage(m.browser.State().Page - 1)

	case key.Matches(msg, m.keys.Next):
		return m.gotoPage(m.browser.State().Page + 1)

	case key.Matches(msg, m.keys.First):
		return m.gotoPage(1)

	case key.Matches(msg, m.keys.Last):
		return m.gotoPage(m.browser.State().TotalPages)

	case key.Matches(msg, m.keys.Clear):
		m.input.SetValue("")
		return m.search()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	next, searchCmd := m.search()
	return next, tea.Batch(cmd, searchCmd)
}

// search applies the search box value. Every change returns to page 1 and
// starts a new batch.
func (m Model) search() (tea.Model, tea.Cmd) {
	if !m.indexLoaded {
		return m, nil
	}
	before := m.browser.State().Generation
	m.browser.SetSearch(m.input.Value())
	if m.browser.State().Generation == before {
		return m, nil
	}
	m.loading = true
	return m, m.load()
}

func (m Model) gotoPage(page int) (tea.Model, tea.Cmd) {
	if !m.indexLoaded {
		return m, nil
	}
	state := m.browser.State()
	page = pagination.Clamp(page, state.TotalPages)
	if page == state.Page {
		return m, nil
	}
	m.browser.SetPage(page)
	m.loading = true
	return m, m.load()
}

// View renders the search box, the current rows and the pager.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("pokedex · " + string(m.collection)))
	b.WriteString("\n\n")
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	switch {
	case m.err != nil:
		b.WriteString(errorText.Render("Error: " + m.err.Error()))
		b.WriteString("\n\nPress ctrl+r to retry")
	case !m.indexLoaded:
		b.WriteString(m.spinner.View() + " Loading index...")
	default:
		b.WriteString(m.rows())
		b.WriteString("\n\n")
		b.WriteString(m.pager())
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m Model) rows() string {
	v := m.view
	if v.Empty() && !m.loading {
		return mutedText.Render(v.EmptyMessage())
	}

	var b strings.Builder
	for i, item := range v.Items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("  " + item.String())
	}
	if m.loading {
		if len(v.Items) > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(m.spinner.View() + " Loading...")
	}
	return b.String()
}

func (m Model) pager() string {
	state := m.browser.State()
	tokens := pagination.Range(state.Page, state.TotalPages)

	parts := make([]string, len(tokens))
	for i, t := range tokens {
		if !t.Ellipsis && t.Page == state.Page {
			parts[i] = currentPageStyle.Render(t.String())
			continue
		}
		parts[i] = mutedText.Render(t.String())
	}
	return strings.Join(parts, " ") + mutedText.Render(fmt.Sprintf("  (%d matches)", state.FilteredCount))
}

// Browser exposes the underlying browser.
func (m Model) Browser() *hydrate.Browser[fmt.Stringer] {
	return m.browser
}
