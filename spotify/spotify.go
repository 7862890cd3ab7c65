// Package spotify is a minimal client for the Spotify web API: just
// enough to turn (title, artist) into an album-art URL. It holds a
// client-credentials token and respects Spotify's documented rate
// limiting, checking for a Retry-After header when it receives a 429.
package spotify

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/amonks/encore/artwork"
	"github.com/amonks/encore/limiter"
	"github.com/amonks/encore/request"
)

const nextReqFilename = "next-req"

// New creates a new Spotify client, with the given clientID and
// clientSecret.
func New(clientID, clientSecret string) *Client {
	lim := limiter.New(nextReqFilename, time.Second/10)
	if err := lim.Load(); err != nil {
		log.Printf("error loading persisted rate limit: %s", err)
	}

	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		lim:          lim,

		apiURL:   "https://api.spotify.com",
		tokenURL: "https://accounts.spotify.com/api/token",
	}
}

type Client struct {
	mu sync.Mutex

	clientID     string
	clientSecret string
	lim          *limiter.Limiter

	apiURL   string
	tokenURL string

	accessToken string
	expiresAt   time.Time
}

// SearchTrackImage searches for the given track and returns the first
// result's first album image URL. The search query embeds both title
// and artist:
//
//	https://api.spotify.com/v1/search?q=track:TITLE artist:ARTIST&type=track&limit=1
//
// Returns artwork.ErrNoMatch when the search comes back empty, and
// artwork.ErrNoImage when the matched track's album has no images.
func (spo *Client) SearchTrackImage(ctx context.Context, title, artist string) (string, error) {
	query := url.Values{}
	query.Add("q", fmt.Sprintf("track:%s artist:%s", title, artist))
	query.Add("type", "track")
	query.Add("limit", "1")

	resp, err := spo.get(ctx, spo.apiURL+"/v1/search", query)
	if err != nil {
		return "", err
	}

	defer resp.Close()
	var results trackSearchResults
	dec := json.NewDecoder(resp)
	if err := dec.Decode(&results); err != nil {
		return "", fmt.Errorf("track search decode error: %w", err)
	}

	if len(results.Tracks.Items) == 0 {
		return "", fmt.Errorf("no track for '%s' by '%s': %w", title, artist, artwork.ErrNoMatch)
	}

	images := results.Tracks.Items[0].Album.Images
	if len(images) == 0 {
		return "", fmt.Errorf("no album image for '%s' by '%s': %w", title, artist, artwork.ErrNoImage)
	}

	return images[0].URL, nil
}

type trackSearchResults struct {
	Tracks struct {
		Items []struct {
			ID   string
			Name string

			Album struct {
				ID     string
				Name   string
				Images []struct {
					Height int64
					Width  int64
					URL    string
				}
			}

			Artists []struct {
				ID   string
				Name string
			}
		}
	}
}

func (spo *Client) get(ctx context.Context, baseURL string, query url.Values) (io.ReadCloser, error) {
	spo.mu.Lock()
	defer spo.mu.Unlock()

retry:
	if err := spo.lim.Wait(ctx); err != nil {
		return nil, err
	}

	url, _ := url.Parse(baseURL)
	url.RawQuery = query.Encode()
	req, err := http.NewRequestWithContext(ctx, "GET", url.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}

	token, err := spo.token()
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}
	if resp.StatusCode == 429 {
		resp.Body.Close()
		if err := spo.lim.SetNextAt(resp.Header.Get("Retry-After")); err != nil {
			return nil, err
		}
		goto retry
	}
	if err := request.Error(resp); err != nil {
		return nil, fmt.Errorf("fetch error: %w", err)
	}

	spo.lim.Delay()

	return resp.Body, nil
}

type tokenResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
}

func (spo *Client) token() (string, error) {
	if spo.accessToken == "" || spo.expiresAt.Before(time.Now().Add(time.Second)) {
		if err := spo.fetchToken(); err != nil {
			return "", err
		}
	}
	return fmt.Sprintf("Bearer %s", spo.accessToken), nil
}

func (spo *Client) fetchToken() error {
	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	req, err := http.NewRequest("POST", spo.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("token request error: %w", err)
	}
	up := fmt.Sprintf("%s:%s", spo.clientID, spo.clientSecret)
	credential := base64.StdEncoding.EncodeToString([]byte(up))
	req.Header.Set("Authorization", fmt.Sprintf("Basic %s", credential))
	req.Header.Set("Content-type", "application/x-www-form-urlencoded")

	requestAt := time.Now()
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("token request error: %w", err)
	}
	defer resp.Body.Close()
	if err := request.Error(resp); err != nil {
		return fmt.Errorf("token fetch error: %w", err)
	}

	var result tokenResult
	dec := json.NewDecoder(resp.Body)
	if err := dec.Decode(&result); err != nil {
		return fmt.Errorf("token decode error: %w", err)
	}

	spo.accessToken = result.AccessToken
	spo.expiresAt = requestAt.Add(time.Duration(result.ExpiresIn) * time.Second)

	return nil
}
