// Package drive downloads the catalog artifacts from Google Drive.
// Drive serves small files directly, but for large ones (the similarity
// matrix) it first serves an html confirmation page; we parse that page
// and follow its download form. Downloads go through a local
// read-through cache keyed by file ID, so each artifact is fetched at
// most once.
package drive

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/amonks/encore/readthrough"
	"github.com/amonks/encore/request"
)

const downloadURL = "https://drive.google.com/uc"

func New(cacheDir string) *Client {
	return &Client{
		cache: readthrough.New(cacheDir, "drive-"),
	}
}

type Client struct {
	cache *readthrough.ReadThrough
}

// Download returns the contents of the Drive file with the given ID,
// reading from the cache when possible. Progress is logged while the
// file streams in.
func (c *Client) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	if cached, hash, err := c.cache.Get(fileID); err == nil {
		log.Printf("using cached download %s for file '%s'", hash[:8], fileID)
		return cached, nil
	} else if !errors.Is(err, readthrough.ErrMiss) {
		return nil, err
	}

	log.Printf("downloading file '%s'", fileID)
	body, size, err := c.fetch(ctx, fileID)
	if err != nil {
		return nil, err
	}

	r, _, err := c.cache.Set(fileID, newProgressReader(body, size))
	if err != nil {
		return nil, fmt.Errorf("error caching download of '%s': %w", fileID, err)
	}
	return r, nil
}

func (c *Client) fetch(ctx context.Context, fileID string) (io.ReadCloser, int64, error) {
	query := url.Values{}
	query.Add("export", "download")
	query.Add("id", fileID)

	resp, err := c.get(ctx, downloadURL, query)
	if err != nil {
		return nil, 0, err
	}

	// A direct response is the file itself. An html response is the
	// "this file is too large to scan for viruses" interstitial.
	if contentType := resp.Header.Get("Content-type"); !strings.HasPrefix(contentType, "text/html") {
		return resp.Body, resp.ContentLength, nil
	}

	confirmURL, confirmQuery, err := parseConfirmForm(resp)
	resp.Body.Close()
	if err != nil {
		return nil, 0, fmt.Errorf("error parsing confirmation page for '%s': %w", fileID, err)
	}

	confirmed, err := c.get(ctx, confirmURL, confirmQuery)
	if err != nil {
		return nil, 0, err
	}
	return confirmed.Body, confirmed.ContentLength, nil
}

func (c *Client) get(ctx context.Context, baseURL string, query url.Values) (*http.Response, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("bad download url '%s': %w", baseURL, err)
	}
	u.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, "GET", u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("request error: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("error fetching '%s': %w", u.String(), err)
	}
	if err := request.Error(resp); err != nil {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status from '%s': %w", u.String(), err)
	}

	return resp, nil
}

// parseConfirmForm pulls the download form out of the confirmation
// page: its action is the real download host, and its hidden inputs
// (id, export, confirm, uuid) become the query.
func parseConfirmForm(resp *http.Response) (string, url.Values, error) {
	doc, err := request.HTML(resp)
	if err != nil {
		return "", nil, err
	}

	form := doc.Find("form#download-form")
	if form.Length() == 0 {
		return "", nil, fmt.Errorf("confirmation page has no download form")
	}

	action, ok := form.Attr("action")
	if !ok || action == "" {
		return "", nil, fmt.Errorf("download form has no action")
	}

	query := url.Values{}
	form.Find("input[type=hidden]").Each(func(i int, sel *goquery.Selection) {
		name, hasName := sel.Attr("name")
		value, hasValue := sel.Attr("value")
		if hasName && hasValue {
			query.Add(name, value)
		}
	})

	return action, query, nil
}

func newProgressReader(r io.ReadCloser, total int64) io.ReadCloser {
	return &progressReader{r: r, total: total}
}

// A progressReader logs download progress in 8MB batches.
type progressReader struct {
	r     io.ReadCloser
	total int64

	count      int64
	lastLogged int64
}

const logEvery = 8 << 20

func (pr *progressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	pr.count += int64(n)
	if pr.count-pr.lastLogged >= logEvery {
		pr.lastLogged = pr.count
		if pr.total > 0 {
			log.Printf("downloaded %dMB of %dMB (%.2f%%)",
				pr.count>>20, pr.total>>20, 100.0*float64(pr.count)/float64(pr.total))
		} else {
			log.Printf("downloaded %dMB", pr.count>>20)
		}
	}
	return n, err
}

func (pr *progressReader) Close() error {
	return pr.r.Close()
}
