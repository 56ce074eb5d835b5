package httpclient

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/place-order/internal/pkg/requestmeta"
)

func TestNew_RejectsIncompleteURLs(t *testing.T) {
	for _, raw := range []string{"", "games:5000", "/games", "http://"} {
		_, err := New("games", raw, nil)
		assert.Error(t, err, raw)
	}
}

func TestNew_DefaultClientHasNoTimeout(t *testing.T) {
	c, err := New("games", "http://games:5000/", nil)
	require.NoError(t, err)

	assert.Zero(t, c.HTTP.Timeout)
	assert.Equal(t, "http://games:5000", c.BaseURL.String())
}

func TestDoJSON_JoinsPathAndSetsHeaders(t *testing.T) {
	var (
		gotPath, gotType, gotReqID, gotBody string
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotType = r.Header.Get("Content-Type")
		gotReqID = r.Header.Get(requestmeta.HeaderXRequestId)
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	c, err := New("games", srv.URL+"/api", srv.Client())
	require.NoError(t, err)

	ctx := requestmeta.WithRequestID(context.Background(), "req-9")
	res, err := c.DoJSON(ctx, http.MethodPatch, "/games/3", map[string]int{"reserve": 2})
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "/api/games/3", gotPath)
	assert.Equal(t, "application/json", gotType)
	assert.Equal(t, "req-9", gotReqID)
	assert.JSONEq(t, `{"reserve":2}`, gotBody)
}
