package profiles

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"cogentcore.org/core/base/fsx"

	"slicerweb/internal/slicerr"
)

// DefaultMaxBodySize bounds a single fetched document.
const DefaultMaxBodySize = 64 << 20

// Fetcher retrieves catalog documents by the URL recorded in the index.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// HTTPFetcher fetches documents over HTTP. Relative and root-relative URLs
// are appended to the path of BaseURL, so with a BaseURL of
// https://cdn.example.com/x the index URL /profiles/index.json is fetched
// from https://cdn.example.com/x/profiles/index.json.
type HTTPFetcher struct {
	BaseURL string
	Client  *http.Client
	// MaxBodySize bounds a response body; zero means DefaultMaxBodySize.
	MaxBodySize int64
}

// NewHTTPFetcher creates an HTTPFetcher. A nil client means
// http.DefaultClient.
func NewHTTPFetcher(baseURL string, client *http.Client) *HTTPFetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &HTTPFetcher{BaseURL: baseURL, Client: client}
}

// Fetch implements Fetcher. Transport failures and non-2xx responses are
// network errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "profiles.HTTPFetcher.Fetch"

	target, err := f.resolve(rawURL)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, fmt.Errorf("unexpected status %s", resp.Status))
	}

	limit := f.MaxBodySize
	if limit <= 0 {
		limit = DefaultMaxBodySize
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}

	if int64(len(body)) > limit {
		return nil, slicerr.New(slicerr.KindNetwork, op, rawURL, fmt.Sprintf("document too large: exceeds %d bytes", limit))
	}

	return body, nil
}

func (f *HTTPFetcher) resolve(rawURL string) (string, error) {
	ref, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}

	if ref.IsAbs() || f.BaseURL == "" {
		return ref.String(), nil
	}

	base, err := url.Parse(f.BaseURL)
	if err != nil {
		return "", err
	}

	u := base.JoinPath(ref.EscapedPath())
	u.RawQuery = ref.RawQuery
	u.Fragment = ""

	return u.String(), nil
}

// DirFetcher serves documents from a directory holding the storage
// layout. URLs have Prefix stripped and are read relative to the root.
type DirFetcher struct {
	fsys   fs.FS
	Prefix string
}

// NewDirFetcher creates a DirFetcher over root.
func NewDirFetcher(root, prefix string) *DirFetcher {
	return &DirFetcher{fsys: os.DirFS(root), Prefix: prefix}
}

// NewFSFetcher creates a DirFetcher over an arbitrary file system.
func NewFSFetcher(fsys fs.FS, prefix string) *DirFetcher {
	return &DirFetcher{fsys: fsys, Prefix: prefix}
}

// Fetch implements Fetcher. A missing file is reported like an HTTP 404.
func (f *DirFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, error) {
	const op = "profiles.DirFetcher.Fetch"

	if err := ctx.Err(); err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}

	name := path.Clean(strings.TrimPrefix(strings.TrimPrefix(rawURL, f.Prefix), "/"))
	if !fs.ValidPath(name) {
		return nil, slicerr.New(slicerr.KindNetwork, op, rawURL, "invalid path")
	}

	exists, err := fsx.FileExistsFS(f.fsys, name)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}

	if !exists {
		return nil, slicerr.New(slicerr.KindNetwork, op, rawURL, "not found")
	}

	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return nil, slicerr.Wrap(slicerr.KindNetwork, op, rawURL, err)
	}

	return data, nil
}

// URLPrefix is the path under which the storage layout is served.
const URLPrefix = "/profiles"

// NewFetcher picks a Fetcher for a storage root: an HTTPFetcher for
// http(s) URLs, otherwise a DirFetcher over the directory.
func NewFetcher(root string, client *http.Client) Fetcher {
	if strings.HasPrefix(root, "http://") || strings.HasPrefix(root, "https://") {
		return NewHTTPFetcher(root, client)
	}

	return NewDirFetcher(root, URLPrefix)
}
