package playlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker"

	"weddingshare/internal/apperrors"
)

// Track is the slice of the external track object the app needs.
type Track struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
	Artist     string `json:"artist"`
	Album      string `json:"album"`
	ImageURL   string `json:"imageUrl,omitempty"`
	DurationMS int    `json:"durationMs,omitempty"`
}

// MusicAPI is the external music service surface the bridge consumes.
type MusicAPI interface {
	Search(ctx context.Context, query string, limit int) ([]Track, error)
	PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error)
	AddTrack(ctx context.Context, playlistID, trackURI string) error
	RemoveTrack(ctx context.Context, playlistID, trackURI string) error
}

// SpotifyClient talks to the Spotify Web API with a client-credentials
// token, retrying transient failures and tripping a breaker when the
// service is down so every guest action does not queue on a dead API.
type SpotifyClient struct {
	clientID     string
	clientSecret string
	apiBase      string
	tokenURL     string
	http         *http.Client
	breaker      *gobreaker.CircuitBreaker

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func NewSpotifyClient(clientID, clientSecret string) *SpotifyClient {
	return newSpotifyClient(clientID, clientSecret,
		"https://api.spotify.com/v1", "https://accounts.spotify.com/api/token")
}

func newSpotifyClient(clientID, clientSecret, apiBase, tokenURL string) *SpotifyClient {
	return &SpotifyClient{
		clientID:     clientID,
		clientSecret: clientSecret,
		apiBase:      apiBase,
		tokenURL:     tokenURL,
		http:         &http.Client{Timeout: 10 * time.Second},
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "spotify",
			Timeout: 30 * time.Second,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= 5
			},
		}),
	}
}

func (c *SpotifyClient) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.accessToken != "" && time.Now().Before(c.tokenExpiry.Add(-30*time.Second)) {
		return c.accessToken, nil
	}
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("token request: %w", apperrors.ErrExternalService)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("token request status %d: %w", resp.StatusCode, apperrors.ErrExternalService)
	}
	var body struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	c.accessToken = body.AccessToken
	c.tokenExpiry = time.Now().Add(time.Duration(body.ExpiresIn) * time.Second)
	return c.accessToken, nil
}

// do runs one API call through the breaker with exponential-backoff
// retries on 5xx and transport errors.
func (c *SpotifyClient) do(ctx context.Context, method, path string, payload any) ([]byte, error) {
	out, err := c.breaker.Execute(func() (any, error) {
		var result []byte
		op := func() error {
			tok, err := c.token(ctx)
			if err != nil {
				return backoff.Permanent(err)
			}
			var body io.Reader
			if payload != nil {
				b, err := json.Marshal(payload)
				if err != nil {
					return backoff.Permanent(err)
				}
				body = strings.NewReader(string(b))
			}
			req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, body)
			if err != nil {
				return backoff.Permanent(err)
			}
			req.Header.Set("Authorization", "Bearer "+tok)
			if payload != nil {
				req.Header.Set("Content-Type", "application/json")
			}
			resp, err := c.http.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			b, err := io.ReadAll(resp.Body)
			if err != nil {
				return err
			}
			if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
				return fmt.Errorf("spotify status %d", resp.StatusCode)
			}
			if resp.StatusCode >= 400 {
				return backoff.Permanent(fmt.Errorf("spotify status %d: %w", resp.StatusCode, apperrors.ErrExternalService))
			}
			result = b
			return nil
		}
		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 15 * time.Second
		if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
			return nil, err
		}
		return result, nil
	})
	if err != nil {
		return nil, classifyExternal(err)
	}
	return out.([]byte), nil
}

// classifyExternal tags breaker and retry failures as external-service
// errors; already-tagged errors pass through unchanged.
func classifyExternal(err error) error {
	if errors.Is(err, apperrors.ErrExternalService) {
		return err
	}
	return fmt.Errorf("%v: %w", err, apperrors.ErrExternalService)
}

func (c *SpotifyClient) Search(ctx context.Context, query string, limit int) ([]Track, error) {
	if limit <= 0 {
		limit = 20
	}
	q := url.Values{"q": {query}, "type": {"track"}, "limit": {fmt.Sprint(limit)}}
	b, err := c.do(ctx, http.MethodGet, "/search?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Tracks struct {
			Items []spotifyTrack `json:"items"`
		} `json:"tracks"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, err
	}
	out := make([]Track, 0, len(body.Tracks.Items))
	for _, t := range body.Tracks.Items {
		out = append(out, t.toTrack())
	}
	return out, nil
}

func (c *SpotifyClient) PlaylistTracks(ctx context.Context, playlistID string) ([]Track, error) {
	b, err := c.do(ctx, http.MethodGet, "/playlists/"+playlistID+"/tracks?limit=100", nil)
	if err != nil {
		return nil, err
	}
	var body struct {
		Items []struct {
			Track spotifyTrack `json:"track"`
		} `json:"items"`
	}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, err
	}
	out := make([]Track, 0, len(body.Items))
	for _, it := range body.Items {
		out = append(out, it.Track.toTrack())
	}
	return out, nil
}

func (c *SpotifyClient) AddTrack(ctx context.Context, playlistID, trackURI string) error {
	_, err := c.do(ctx, http.MethodPost, "/playlists/"+playlistID+"/tracks",
		map[string]any{"uris": []string{trackURI}})
	return err
}

func (c *SpotifyClient) RemoveTrack(ctx context.Context, playlistID, trackURI string) error {
	_, err := c.do(ctx, http.MethodDelete, "/playlists/"+playlistID+"/tracks",
		map[string]any{"tracks": []map[string]string{{"uri": trackURI}}})
	return err
}

type spotifyTrack struct {
	ID         string `json:"id"`
	URI        string `json:"uri"`
	Name       string `json:"name"`
	DurationMS int    `json:"duration_ms"`
	Artists    []struct {
		Name string `json:"name"`
	} `json:"artists"`
	Album struct {
		Name   string `json:"name"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	} `json:"album"`
}

func (t spotifyTrack) toTrack() Track {
	out := Track{ID: t.ID, URI: t.URI, Name: t.Name, Album: t.Album.Name, DurationMS: t.DurationMS}
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	out.Artist = strings.Join(names, ", ")
	if len(t.Album.Images) > 0 {
		out.ImageURL = t.Album.Images[0].URL
	}
	return out
}
