package index

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageEndpoint(t *testing.T) {
	assert.Equal(t, "/pokemon?limit=20&offset=40", PageEndpoint(Pokemon, 40, 20))
}

func TestLoader_LoadPage(t *testing.T) {
	f := &fakeFetcher{bodies: map[string]string{
		PageEndpoint(Pokemon, 2, 2): `{"count":1302,"next":"x","previous":"y","results":[
			{"name":"venusaur","url":"https://pokeapi.co/api/v2/pokemon/3/"},
			{"name":"charmander","url":"https://pokeapi.co/api/v2/pokemon/4/"}]}`,
		PageEndpoint(Pokemon, 0, 5): `{"results":[]}`,
	}}
	l := NewLoader(f)

	page, err := l.LoadPage(context.Background(), Pokemon, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, 1302, page.Count)
	assert.Equal(t, []string{"venusaur", "charmander"}, Names(page.Entries))

	_, err = l.LoadPage(context.Background(), Pokemon, 0, 5)
	assert.ErrorIs(t, err, ErrIndexLoadFailed, "missing count is malformed")

	_, err = l.LoadPage(context.Background(), Pokemon, 100, 5)
	assert.ErrorIs(t, err, ErrIndexLoadFailed)
}
