package services

import (
	"bytes"
	"io"
)

// ProgressFunc receives the bytes sent so far and the total to send.
// Callbacks for one transfer arrive with strictly increasing sent counts.
type ProgressFunc func(sent, total int64)

// ProgressReader counts bytes as the storage client consumes them. MinIO may
// seek back on retry; the count follows the reader position so a restarted
// transfer reports from where it rewound.
type ProgressReader struct {
	r     *bytes.Reader
	total int64
	onFn  ProgressFunc
}

func NewProgressReader(data []byte, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{
		r:     bytes.NewReader(data),
		total: int64(len(data)),
		onFn:  fn,
	}
}

func (p *ProgressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	if n > 0 && p.onFn != nil {
		p.onFn(p.total-int64(p.r.Len()), p.total)
	}
	return n, err
}

func (p *ProgressReader) Seek(offset int64, whence int) (int64, error) {
	return p.r.Seek(offset, whence)
}

var _ io.ReadSeeker = (*ProgressReader)(nil)
