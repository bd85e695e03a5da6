package tui

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sync"
	"testing"

	"github.com/Sternrassler/pokeapi-client/pkg/hydrate"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func stripANSI(s string) string {
	return ansi.ReplaceAllString(s, "")
}

type record string

func (r record) String() string { return "* " + string(r) }

// gatedDetails resolves every entry to a record. Names registered with block
// wait until released.
type gatedDetails struct {
	mu      sync.Mutex
	blocked map[string]chan struct{}
	started chan string
	fail    map[string]bool
}

func newGatedDetails() *gatedDetails {
	return &gatedDetails{
		blocked: make(map[string]chan struct{}),
		started: make(chan string, 16),
		fail:    make(map[string]bool),
	}
}

func (g *gatedDetails) block(name string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch := make(chan struct{})
	g.blocked[name] = ch
	return ch
}

func (g *gatedDetails) fetch(_ context.Context, e index.Entry) (fmt.Stringer, error) {
	g.mu.Lock()
	gate, fail := g.blocked[e.Name], g.fail[e.Name]
	g.mu.Unlock()

	if gate != nil {
		g.started <- e.Name
		<-gate
	}
	if fail {
		return nil, errors.New("boom")
	}
	return record(e.Name), nil
}

func entries(names ...string) []index.Entry {
	out := make([]index.Entry, len(names))
	for i, n := range names {
		out[i] = index.Entry{Name: n, Reference: "ref/" + n}
	}
	return out
}

func newTestModel(t *testing.T, g *gatedDetails, pageSize int, names ...string) Model {
	t.Helper()
	load := func(context.Context) ([]index.Entry, error) { return entries(names...), nil }
	return New(context.Background(), index.Pokemon, load, g.fetch, hydrate.Config{PageSize: pageSize})
}

// update feeds msg to m and returns the resulting Model.
func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	return model, cmd
}

// loaded returns m after the index and its first page have been applied.
func loaded(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, m.fetchIndex()())
	require.NotNil(t, cmd)
	m, _ = update(t, m, cmd())
	return m
}

func typeKey(t *testing.T, m Model, r rune) Model {
	t.Helper()
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return m
}

func TestModel_LoadsFirstPage(t *testing.T) {
	m := newTestModel(t, newGatedDetails(), 2, "bulbasaur", "ivysaur", "venusaur")
	assert.Contains(t, stripANSI(m.View()), "Loading index")

	m = loaded(t, m)

	view := stripANSI(m.View())
	assert.Contains(t, view, "* bulbasaur")
	assert.Contains(t, view, "* ivysaur")
	assert.NotContains(t, view, "* venusaur")
	assert.Contains(t, view, "(3 matches)")
	assert.False(t, m.loading)
}

func TestModel_IndexError(t *testing.T) {
	load := func(context.Context) ([]index.Entry, error) {
		return nil, &index.LoadError{Collection: "pokemon", Err: errors.New("timeout")}
	}
	m := New(context.Background(), index.Pokemon, load, newGatedDetails().fetch, hydrate.Config{})

	m, cmd := update(t, m, m.fetchIndex()())
	assert.Nil(t, cmd)
	assert.ErrorIs(t, m.err, index.ErrIndexLoadFailed)
	assert.Contains(t, stripANSI(m.View()), "Error:")
	assert.Contains(t, stripANSI(m.View()), "ctrl+r")
}

func TestModel_Paging(t *testing.T) {
	m := loaded(t, newTestModel(t, newGatedDetails(), 2, "a1", "a2", "a3", "a4", "a5"))

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.NotNil(t, cmd)
	assert.Equal(t, 2, m.browser.State().Page)
	assert.True(t, m.loading)

	m, _ = update(t, m, cmd())
	assert.Contains(t, stripANSI(m.View()), "* a3")
	assert.False(t, m.loading)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 3, m.browser.State().Page)

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Nil(t, cmd, "no page past the last")
	assert.Equal(t, 3, m.browser.State().Page)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, 1, m.browser.State().Page)

	_, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Nil(t, cmd, "no page before the first")
}

func TestModel_KeystrokeResetsPage(t *testing.T) {
	m := loaded(t, newTestModel(t, newGatedDetails(), 1, "abra", "alakazam", "kadabra"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	require.Equal(t, 2, m.browser.State().Page)
	gen := m.browser.State().Generation

	m = typeKey(t, m, 'k')

	state := m.browser.State()
	assert.Equal(t, "k", m.input.Value())
	assert.Equal(t, "k", state.Search)
	assert.Equal(t, 1, state.Page)
	assert.Equal(t, 2, state.FilteredCount)
	assert.Greater(t, state.Generation, gen)
	assert.True(t, m.loading)
}

func TestModel_LoadingKeepsPreviousRows(t *testing.T) {
	m := loaded(t, newTestModel(t, newGatedDetails(), 2, "abra", "kadabra", "alakazam"))
	m = typeKey(t, m, 'z')

	view := stripANSI(m.View())
	assert.Contains(t, view, "* abra", "previous rows stay visible")
	assert.Contains(t, view, "Loading...")
}

func TestModel_StaleBatchIgnored(t *testing.T) {
	g := newGatedDetails()
	m := loaded(t, newTestModel(t, g, 2, "abra", "bulbasaur", "charmander", "alakazam"))

	// "k" matches only alakazam, whose fetch is held back.
	release := g.block("alakazam")
	m = typeKey(t, m, 'k')
	slow := m.load()
	results := make(chan tea.Msg, 1)
	go func() { results <- slow() }()
	require.Equal(t, "alakazam", <-g.started)

	// "c" supersedes it before it finishes.
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = typeKey(t, m, 'c')
	m, _ = update(t, m, m.load()())
	require.Contains(t, stripANSI(m.View()), "* charmander")

	close(release)
	stale := <-results
	pm, ok := stale.(PageMsg)
	require.True(t, ok)
	require.ErrorIs(t, pm.Err, hydrate.ErrStale)

	m, cmd := update(t, m, stale)
	assert.Nil(t, cmd)
	view := stripANSI(m.View())
	assert.Contains(t, view, "* charmander")
	assert.NotContains(t, view, "* alakazam")

	// The superseded fetch still filled the cache.
	_, ok = m.browser.Cache().Get("alakazam")
	assert.True(t, ok)
}

func TestModel_LateBatchFromOlderGeneration(t *testing.T) {
	m := loaded(t, newTestModel(t, newGatedDetails(), 2, "abra", "bulbasaur", "charmander", "alakazam"))

	// The "k" batch completes before the search changes, so Load accepts it,
	// but its message is only delivered after the "c" batch.
	m = typeKey(t, m, 'k')
	late, ok := m.load()().(PageMsg)
	require.True(t, ok)
	require.NoError(t, late.Err)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = typeKey(t, m, 'c')
	m, _ = update(t, m, m.load()())
	require.False(t, m.loading)

	m, cmd := update(t, m, late)
	assert.Nil(t, cmd)
	assert.False(t, m.loading, "an older batch must not restart the spinner")
	assert.Equal(t, m.browser.State().Generation, m.view.Generation)
	view := stripANSI(m.View())
	assert.Contains(t, view, "* charmander")
	assert.NotContains(t, view, "* alakazam")
	assert.NotContains(t, view, "Loading...")
}

func TestModel_EmptyResult(t *testing.T) {
	m := loaded(t, newTestModel(t, newGatedDetails(), 2, "abra", "kadabra"))
	for _, r := range "zzz" {
		m = typeKey(t, m, r)
	}
	m, _ = update(t, m, m.load()())

	assert.Contains(t, stripANSI(m.View()), "no results for 'zzz'")
}

func TestModel_FailedEntriesOmitted(t *testing.T) {
	g := newGatedDetails()
	g.fail["kadabra"] = true
	m := loaded(t, newTestModel(t, g, 3, "abra", "kadabra", "alakazam"))

	view := stripANSI(m.View())
	assert.Contains(t, view, "* abra")
	assert.NotContains(t, view, "* kadabra")
	assert.Contains(t, view, "* alakazam")
	assert.Equal(t, []string{"kadabra"}, m.view.Missing)
}

func TestModel_Quit(t *testing.T) {
	m := newTestModel(t, newGatedDetails(), 2, "abra")
	_, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
