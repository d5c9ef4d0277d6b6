package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"weddingshare/internal/apperrors"
)

func newTokenServer(t *testing.T) (*httptest.Server, *int) {
	t.Helper()
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "client-id", user)
		assert.Equal(t, "client-secret", pass)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok-123",
			"expires_in":   3600,
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func TestSearchParsesTracks(t *testing.T) {
	tokenSrv, tokenCalls := newTokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "dancing queen", r.URL.Query().Get("q"))
		_, _ = w.Write([]byte(`{"tracks":{"items":[{
			"id":"t1","uri":"spotify:track:t1","name":"Dancing Queen","duration_ms":230000,
			"artists":[{"name":"ABBA"}],
			"album":{"name":"Arrival","images":[{"url":"https://img/cover.jpg"}]}
		}]}}`))
	}))
	defer api.Close()

	c := newSpotifyClient("client-id", "client-secret", api.URL, tokenSrv.URL)
	tracks, err := c.Search(context.Background(), "dancing queen", 5)
	require.NoError(t, err)
	require.Len(t, tracks, 1)
	assert.Equal(t, Track{
		ID: "t1", URI: "spotify:track:t1", Name: "Dancing Queen",
		Artist: "ABBA", Album: "Arrival", ImageURL: "https://img/cover.jpg",
		DurationMS: 230000,
	}, tracks[0])
	assert.Equal(t, 1, *tokenCalls)
}

func TestTokenIsCached(t *testing.T) {
	tokenSrv, tokenCalls := newTokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tracks":{"items":[]}}`))
	}))
	defer api.Close()

	c := newSpotifyClient("client-id", "client-secret", api.URL, tokenSrv.URL)
	for i := 0; i < 3; i++ {
		_, err := c.Search(context.Background(), "abba", 5)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, *tokenCalls, "a live token is reused")
}

func TestRetriesTransientFailure(t *testing.T) {
	tokenSrv, _ := newTokenServer(t)
	var apiCalls int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		if apiCalls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"track":{"id":"t1","uri":"spotify:track:t1","name":"x"}}]}`))
	}))
	defer api.Close()

	c := newSpotifyClient("client-id", "client-secret", api.URL, tokenSrv.URL)
	tracks, err := c.PlaylistTracks(context.Background(), "pl-1")
	require.NoError(t, err)
	assert.Len(t, tracks, 1)
	assert.GreaterOrEqual(t, apiCalls, 2)
}

func TestClientErrorIsNotRetried(t *testing.T) {
	tokenSrv, _ := newTokenServer(t)
	var apiCalls int
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiCalls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer api.Close()

	c := newSpotifyClient("client-id", "client-secret", api.URL, tokenSrv.URL)
	_, err := c.PlaylistTracks(context.Background(), "pl-missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrExternalService)
	assert.Equal(t, 1, apiCalls)
}

type quietWrap struct{ inner error }

func (q quietWrap) Error() string { return "upstream unavailable" }
func (q quietWrap) Unwrap() error { return q.inner }

func TestClassifyExternal(t *testing.T) {
	tagged := fmt.Errorf("spotify status 404: %w", apperrors.ErrExternalService)
	assert.Same(t, tagged, classifyExternal(tagged))

	// Wrapping that hides the sentinel's text must still be recognized
	// through the error chain, not by message matching.
	hidden := quietWrap{inner: apperrors.ErrExternalService}
	assert.Equal(t, error(hidden), classifyExternal(hidden))

	plain := errors.New("breaker open")
	got := classifyExternal(plain)
	assert.NotSame(t, plain, got)
	assert.ErrorIs(t, got, apperrors.ErrExternalService)
}

func TestAddTrackSendsURIs(t *testing.T) {
	tokenSrv, _ := newTokenServer(t)
	api := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/playlists/pl-1/tracks", r.URL.Path)
		var body struct {
			URIs []string `json:"uris"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, []string{"spotify:track:t1"}, body.URIs)
		w.WriteHeader(http.StatusCreated)
	}))
	defer api.Close()

	c := newSpotifyClient("client-id", "client-secret", api.URL, tokenSrv.URL)
	assert.NoError(t, c.AddTrack(context.Background(), "pl-1", "spotify:track:t1"))
}
