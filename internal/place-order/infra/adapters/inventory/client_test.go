package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/place-order/internal/pkg/requestmeta"
	"github.com/jcmexdev/place-order/internal/place-order/infra/adapters/httpclient"
)

type recordedRequest struct {
	Method  string
	Path    string
	Reserve int
	Header  http.Header
}

func newGamesStub(t *testing.T, status int) (*Client, *[]recordedRequest) {
	t.Helper()
	var seen []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body reserveRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		seen = append(seen, recordedRequest{
			Method:  r.Method,
			Path:    r.URL.Path,
			Reserve: body.Reserve,
			Header:  r.Header.Clone(),
		})
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(`{"code":200}`))
	}))
	t.Cleanup(srv.Close)

	base, err := httpclient.New("games", srv.URL, srv.Client())
	require.NoError(t, err)
	return NewClient(base), &seen
}

func TestReserve_SendsPatchWithQuantity(t *testing.T) {
	client, seen := newGamesStub(t, http.StatusOK)
	ctx := requestmeta.WithRequestID(context.Background(), "req-42")

	require.NoError(t, client.Reserve(ctx, 1, 2))

	require.Len(t, *seen, 1)
	got := (*seen)[0]
	assert.Equal(t, http.MethodPatch, got.Method)
	assert.Equal(t, "/games/1", got.Path)
	assert.Equal(t, 2, got.Reserve)
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, "req-42", got.Header.Get(requestmeta.HeaderXRequestId))
}

func TestRelease_SendsNegatedQuantity(t *testing.T) {
	client, seen := newGamesStub(t, http.StatusOK)

	require.NoError(t, client.Release(context.Background(), 9, 3))

	require.Len(t, *seen, 1)
	assert.Equal(t, "/games/9", (*seen)[0].Path)
	assert.Equal(t, -3, (*seen)[0].Reserve)
}

func TestReserve_NonOKIsFailure(t *testing.T) {
	for _, status := range []int{http.StatusBadRequest, http.StatusNotFound, http.StatusCreated, http.StatusInternalServerError} {
		client, _ := newGamesStub(t, status)
		assert.Error(t, client.Reserve(context.Background(), 1, 1), "status %d", status)
	}
}

func TestReserve_TransportErrorIsFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base, err := httpclient.New("games", srv.URL, srv.Client())
	require.NoError(t, err)
	srv.Close()

	assert.Error(t, NewClient(base).Reserve(context.Background(), 1, 1))
}
