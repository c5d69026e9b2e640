// Package client is the transport collaborator: one GET per call, with
// content-negotiation Accept headers, feeding the response body to the
// matching decoder. Transport errors pass through untouched; the client
// imposes no retry, caching or timeout policy of its own.
package client

import (
	"context"
	"fmt"
	"io"
	"net/http"

	d "github.com/visionmedia/go-debug"

	"github.com/greut/iiifld"
	"github.com/greut/iiifld/image"
	"github.com/greut/iiifld/presentation"
)

var debug = d.Debug("iiifld:client")

// HTTPError is a non-2xx response, reported as-is.
type HTTPError struct {
	StatusCode int
	URL        string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d (%s) %s", e.StatusCode, http.StatusText(e.StatusCode), e.URL)
}

func acceptProfiles(contexts ...string) []string {
	accept := make([]string, 0, len(contexts)+1)
	for _, c := range contexts {
		accept = append(accept, fmt.Sprintf("application/ld+json;profile=%q", c))
	}
	return append(accept, "application/json")
}

// AcceptPresentation is the default Accept list for manifests,
// collections, canvases and ranges: v3 preferred, v2 accepted, plain
// JSON last.
func AcceptPresentation() []string {
	return acceptProfiles(iiifld.ContextPresentation3, iiifld.ContextPresentation2)
}

// AcceptInfo is the default Accept list for info.json documents.
func AcceptInfo() []string {
	return acceptProfiles(iiifld.ContextImage3, iiifld.ContextImage2)
}

// Client fetches and decodes IIIF documents. The zero value uses
// http.DefaultClient, no body limit, and default decode options.
type Client struct {
	// HTTPClient is used for requests; nil means http.DefaultClient,
	// which carries no timeout. Deadlines belong to the caller's ctx.
	HTTPClient *http.Client
	// MaxBody caps response body reads in bytes; zero means unlimited.
	MaxBody int64
	// Options are passed to the presentation decoders.
	Options presentation.Options
}

func (c *Client) get(ctx context.Context, url string, accept []string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	for _, a := range accept {
		req.Header.Add("Accept", a)
	}

	hc := c.HTTPClient
	if hc == nil {
		hc = http.DefaultClient
	}

	debug("GET %s (%d accept values)", url, len(accept))
	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{resp.StatusCode, url}
	}

	var r io.Reader = resp.Body
	if c.MaxBody > 0 {
		r = io.LimitReader(resp.Body, c.MaxBody)
	}
	return io.ReadAll(r)
}

// Manifest fetches url and decodes it as a manifest. A nil accept list
// falls back to AcceptPresentation.
func (c *Client) Manifest(ctx context.Context, url string, accept []string) (*presentation.Manifest, error) {
	if accept == nil {
		accept = AcceptPresentation()
	}
	body, err := c.get(ctx, url, accept)
	if err != nil {
		return nil, err
	}
	return presentation.DecodeManifestOpts(body, c.Options)
}

// Resource fetches url and decodes it as whatever Presentation API
// resource the document declares itself to be.
func (c *Client) Resource(ctx context.Context, url string, accept []string) (presentation.Resource, error) {
	if accept == nil {
		accept = AcceptPresentation()
	}
	body, err := c.get(ctx, url, accept)
	if err != nil {
		return nil, err
	}
	return presentation.DecodeResourceOpts(body, c.Options)
}

// Info fetches url and decodes it as an Image API info.json document.
func (c *Client) Info(ctx context.Context, url string, accept []string) (*image.Info, error) {
	if accept == nil {
		accept = AcceptInfo()
	}
	body, err := c.get(ctx, url, accept)
	if err != nil {
		return nil, err
	}
	return image.DecodeInfo(body)
}
