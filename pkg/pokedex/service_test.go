package pokedex

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"github.com/Sternrassler/pokeapi-client/internal/testutil"
	"github.com/Sternrassler/pokeapi-client/pkg/client"
	"github.com/Sternrassler/pokeapi-client/pkg/index"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPokemon(mock *testutil.MockPokeAPI, n int) []string {
	names := make([]string, n)
	for i := range names {
		names[i] = fmt.Sprintf("mon-%02d", i+1)
	}
	mock.AddCollection("pokemon", names...)
	for i, name := range names {
		mock.SetDetail("pokemon", name, testutil.PokemonJSON(i+1, name, "normal"))
	}
	return names
}

func TestService_ListPokemon(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	names := seedPokemon(mock, 5)

	// the mock ignores limit/offset and always returns the whole list; serve
	// the requested page explicitly
	mock.SetHandler("/api/v2/pokemon", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("limit"))
		assert.Equal(t, "2", r.URL.Query().Get("offset"))
		fmt.Fprintf(w, `{"count":5,"results":[{"name":%q,"url":"u"},{"name":%q,"url":"u"}]}`, names[2], names[3])
	})

	svc := NewService(newClient(t, mock), 0)
	res, err := svc.ListPokemon(context.Background(), 2, 2)
	require.NoError(t, err)

	assert.Equal(t, 5, res.TotalCount)
	assert.Equal(t, 2, res.Page)
	assert.Equal(t, 2, res.PageSize)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "mon-03", res.Results[0].Name)
	assert.Equal(t, 3, res.Results[0].ID)
	assert.Equal(t, []string{"normal"}, res.Results[0].Types)
	assert.Equal(t, "mon-04", res.Results[1].Name)
}

func TestService_ListPokemon_DropsFailedDetails(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetResponse("/api/v2/pokemon", testutil.NewHealthyResponse(
		`{"count":3,"results":[{"name":"a","url":"u"},{"name":"b","url":"u"},{"name":"c","url":"u"}]}`))
	mock.SetDetail("pokemon", "a", testutil.PokemonJSON(1, "a"))
	mock.SetDetail("pokemon", "c", testutil.PokemonJSON(3, "c"))

	svc := NewService(newClient(t, mock), 0)
	res, err := svc.ListPokemon(context.Background(), 1, 3)
	require.NoError(t, err)

	assert.Equal(t, 3, res.TotalCount)
	require.Len(t, res.Results, 2)
	assert.Equal(t, "a", res.Results[0].Name)
	assert.Equal(t, "c", res.Results[1].Name)
}

func TestService_ListPokemon_IndexFailure(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	mock.SetResponse("/api/v2/pokemon", testutil.NewServerErrorResponse())

	svc := NewService(newClient(t, mock), 0)
	_, err := svc.ListPokemon(context.Background(), 1, 20)
	assert.ErrorIs(t, err, index.ErrIndexLoadFailed)
}

func TestService_GetPokemon(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	seedPokemon(mock, 3)

	svc := NewService(newClient(t, mock), 0)
	ctx := context.Background()

	p, err := svc.GetPokemon(ctx, "  MON-02 ")
	require.NoError(t, err)
	assert.Equal(t, 2, p.ID)

	byID, err := svc.GetPokemon(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, "mon-03", byID.Name)

	_, err = svc.GetPokemon(ctx, "missingno")
	assert.ErrorIs(t, err, client.ErrNotFound)
}

func TestService_SharedCacheAcrossRequests(t *testing.T) {
	mock := testutil.NewMockPokeAPI()
	defer mock.Close()
	seedPokemon(mock, 4)

	svc := NewService(newClient(t, mock), 0)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ListPokemon(context.Background(), 1, 4)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	for i := 1; i <= 4; i++ {
		path := fmt.Sprintf("/api/v2/pokemon/mon-%02d", i)
		assert.Equal(t, 1, mock.PathCount(path), "details of %s fetched once", path)
	}
	assert.Equal(t, 4, svc.Cache().Len())
}
