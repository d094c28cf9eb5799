package source

import (
	"context"
	"io"
	"os"
)

// fileSource reads a prefix window straight from a local file.
type fileSource struct {
	f    *os.File
	size int64
	win  []byte
}

func newFileSource(path string) (*fileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, ErrUnavailable(path, err)
	}
	fi, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ErrUnavailable(path, err)
	}
	return &fileSource{f: f, size: fi.Size()}, nil
}

func (s *fileSource) Size(ctx context.Context) (int64, error) {
	return s.size, nil
}

func (s *fileSource) Prefix(ctx context.Context, n int) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if int64(n) > s.size {
		n = int(s.size)
	}
	if n <= len(s.win) {
		return s.win, nil
	}
	chunk := make([]byte, n-len(s.win))
	m, err := s.f.ReadAt(chunk, int64(len(s.win)))
	s.win = append(s.win, chunk[:m]...)
	if err != nil && err != io.EOF {
		return nil, ErrUnavailable(s.f.Name(), err)
	}
	return s.win, nil
}

func (s *fileSource) Close() error { return s.f.Close() }
