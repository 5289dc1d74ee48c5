package document

import (
	"context"
	"io"
	"os"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/fasthttp"
)

// Source yields the raw bytes of the odds document.
type Source interface {
	Fetch(ctx context.Context) ([]byte, error)
	Describe() string
}

// NewSource picks an HTTP source for http(s) locations and a file source otherwise.
func NewSource(location string, timeout time.Duration, maxBytes int) Source {
	lower := strings.ToLower(strings.TrimSpace(location))
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return NewHTTPSource(location, timeout, maxBytes)
	}
	return NewFileSource(location, maxBytes)
}

type FileSource struct {
	path     string
	maxBytes int
}

func NewFileSource(path string, maxBytes int) *FileSource {
	return &FileSource{path: strings.TrimSpace(path), maxBytes: maxBytes}
}

func (s *FileSource) Describe() string {
	return "file:" + s.path
}

func (s *FileSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f, err := os.Open(s.path)
	if err != nil {
		return nil, crerr.Wrapf(err, "open document %s", s.path)
	}
	defer func() {
		_ = f.Close()
	}()

	var reader io.Reader = f
	if s.maxBytes > 0 {
		reader = io.LimitReader(f, int64(s.maxBytes)+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, crerr.Wrapf(err, "read document %s", s.path)
	}
	if s.maxBytes > 0 && len(raw) > s.maxBytes {
		return nil, crerr.Newf("document %s exceeds %d bytes", s.path, s.maxBytes)
	}
	return raw, nil
}

// HTTPSource performs one GET of a static document; there is no retry.
type HTTPSource struct {
	url     string
	timeout time.Duration
	client  *fasthttp.Client
}

func NewHTTPSource(url string, timeout time.Duration, maxBytes int) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPSource{
		url:     strings.TrimSpace(url),
		timeout: timeout,
		client: &fasthttp.Client{
			Name:                "odds-board",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxResponseBodySize: maxBytes,
		},
	}
}

func (s *HTTPSource) Describe() string {
	return s.url
}

func (s *HTTPSource) Fetch(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(s.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(s.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := s.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, crerr.Wrapf(err, "fetch document %s", s.url)
	}

	status := resp.StatusCode()
	if status < 200 || status > 299 {
		return nil, crerr.Newf("HTTP error! status: %d", status)
	}

	body := resp.Body()
	out := make([]byte, len(body))
	copy(out, body)
	return out, nil
}
