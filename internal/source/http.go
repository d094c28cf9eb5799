package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// httpSource fetches a remote file's prefix with HTTP range requests. Each
// request asks only for the bytes the window is missing, so growth never
// transfers a byte twice. Servers that ignore the Range header (200 OK)
// switch the source to streaming mode: the response body stays open and is
// drained on demand, then closed as soon as the caller is done, even if the
// server still has bytes in flight.
//
// A source is owned by one estimation task; it is not safe for concurrent
// use.
type httpSource struct {
	url  string
	opts Options

	win   []byte
	total int64 // -1 until learned from Content-Range or Content-Length

	stream     io.ReadCloser // open body in streaming (200 OK) mode
	streamStop context.CancelFunc
	exhausted  bool // streaming body reached EOF
}

func newHTTPSource(url string, opts Options) *httpSource {
	return &httpSource{url: url, opts: opts, total: -1}
}

func (s *httpSource) Size(ctx context.Context) (int64, error) {
	if s.total >= 0 {
		return s.total, nil
	}
	if s.exhausted {
		s.total = int64(len(s.win))
		return s.total, nil
	}
	// Probe one byte past the window; a 206 answer carries the total in
	// Content-Range, so size discovery costs a single transferred byte.
	if err := s.fetch(ctx, len(s.win)+1); err != nil {
		return 0, err
	}
	if s.total < 0 {
		if s.exhausted {
			s.total = int64(len(s.win))
		} else {
			return 0, ErrNetwork("%s: server reported no size", s.url)
		}
	}
	return s.total, nil
}

func (s *httpSource) Prefix(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.total >= 0 && int64(n) > s.total {
		n = int(s.total)
	}
	if n <= len(s.win) || s.exhausted {
		return s.win, nil
	}

	// Doubling growth policy: never issue a fetch smaller than twice the
	// current window, so a trickle of small NeedMoreBytes signals cannot
	// degenerate into per-entry round trips.
	target := n
	if d := 2 * len(s.win); d > target {
		target = d
	}
	if s.opts.InitialPrefix > target {
		target = s.opts.InitialPrefix
	}
	if s.total >= 0 && int64(target) > s.total {
		target = int(s.total)
	}
	if err := s.fetch(ctx, target); err != nil {
		return nil, err
	}
	return s.win, nil
}

// fetch grows the window to target bytes.
func (s *httpSource) fetch(ctx context.Context, target int) error {
	if s.stream != nil {
		return s.readStream(ctx, target)
	}

	start := int64(len(s.win))
	reqCtx, cancel := context.WithCancel(ctx)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.url, nil)
	if err != nil {
		cancel()
		return ErrNetwork("%v", err)
	}
	req.Header.Set("Range", fmt.Sprintf("bytes=%d-%d", start, int64(target)-1))

	// Per-request watchdog: fires the context cancel so a stalled server
	// cannot block the estimation call.
	timer := time.AfterFunc(s.opts.Timeout, cancel)
	resp, err := s.opts.Client.Do(req)
	if err != nil {
		timer.Stop()
		cancel()
		return s.classify(ctx, err)
	}

	switch resp.StatusCode {
	case http.StatusPartialContent:
		if total, ok := contentRangeTotal(resp.Header.Get("Content-Range")); ok {
			s.total = total
		}
		body, err := io.ReadAll(resp.Body)
		timer.Stop()
		resp.Body.Close()
		cancel()
		s.win = append(s.win, body...)
		if err != nil {
			return s.classify(ctx, err)
		}
		return nil

	case http.StatusOK:
		// Range unsupported: the server is sending the whole file. Keep
		// the body open and consume it incrementally; no further range
		// requests will be issued.
		timer.Stop()
		if resp.ContentLength >= 0 {
			s.total = resp.ContentLength
		}
		s.stream = resp.Body
		s.streamStop = cancel
		if start > 0 {
			// Bytes up to start were already fetched by earlier ranged
			// reads; skip the stream's copy of them.
			if _, err := io.CopyN(io.Discard, s.stream, start); err != nil {
				return s.closeStreamWith(ctx, err)
			}
		}
		return s.readStream(ctx, target)

	case http.StatusRequestedRangeNotSatisfiable:
		// The window already covers the whole object (e.g. an empty file).
		timer.Stop()
		resp.Body.Close()
		cancel()
		if total, ok := contentRangeTotal(resp.Header.Get("Content-Range")); ok {
			s.total = total
		} else {
			s.total = start
		}
		return nil

	default:
		timer.Stop()
		resp.Body.Close()
		cancel()
		return ErrNetwork("%s: unexpected status %s", s.url, resp.Status)
	}
}

// readStream drains the open 200-OK body until the window holds target
// bytes, each read bounded by the per-request timeout.
func (s *httpSource) readStream(ctx context.Context, target int) error {
	need := target - len(s.win)
	if need <= 0 {
		return nil
	}
	timer := time.AfterFunc(s.opts.Timeout, s.streamStop)
	buf := make([]byte, need)
	m, err := io.ReadFull(s.stream, buf)
	timer.Stop()
	s.win = append(s.win, buf[:m]...)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		s.exhausted = true
		s.closeStream()
		return nil
	}
	if err != nil {
		return s.closeStreamWith(ctx, err)
	}
	return nil
}

func (s *httpSource) closeStream() {
	if s.stream != nil {
		s.stream.Close()
		s.streamStop()
		s.stream = nil
		s.streamStop = nil
	}
}

func (s *httpSource) closeStreamWith(ctx context.Context, err error) error {
	s.closeStream()
	return s.classify(ctx, err)
}

// classify maps a transport error to the caller's cancellation, a timeout,
// or a plain network failure.
func (s *httpSource) classify(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return ErrNetworkTimeout("%s: no response within %s", s.url, s.opts.Timeout)
	}
	return ErrNetwork("%s: %v", s.url, err)
}

// Close releases the connection immediately, discarding any bytes still in
// flight.
func (s *httpSource) Close() error {
	s.closeStream()
	return nil
}

// contentRangeTotal extracts the total size from a Content-Range header of
// the form "bytes start-end/total" or "bytes */total".
func contentRangeTotal(h string) (int64, bool) {
	rest, ok := strings.CutPrefix(h, "bytes ")
	if !ok {
		return 0, false
	}
	_, totalPart, ok := strings.Cut(rest, "/")
	if !ok || totalPart == "*" {
		return 0, false
	}
	total, err := strconv.ParseInt(totalPart, 10, 64)
	if err != nil || total < 0 {
		return 0, false
	}
	return total, true
}
