package transport

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"

	"imf-reader/internal/imferr"
)

// DefaultSizeHint is the initial buffer capacity when the stream size is
// unknown.
const DefaultSizeHint = 8 * 1024

const maxInitialBuffer = 64 << 20

// DefaultMaxReadSize caps a single document read.
const DefaultMaxReadSize = math.MaxUint32 - 1

// ReadAll opens uri and reads it to end-of-stream. The read fails with an
// error wrapping imferr.ErrIO when it does not reach a clean end-of-stream,
// when the stream delivers a different number of bytes than its reported
// size, when it exceeds maxSize, or when nothing was read. A maxSize of zero
// or less selects DefaultMaxReadSize.
func ReadAll(ctx context.Context, o Opener, uri string, opts Options, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = DefaultMaxReadSize
	}

	s, err := o.Open(ctx, uri, opts)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	return readStream(s, maxSize)
}

func readStream(s Stream, maxSize int64) ([]byte, error) {
	size := s.Size()
	if size > maxSize {
		return nil, imferr.IO("read", fmt.Errorf("size %d exceeds limit %d", size, maxSize))
	}

	hint := int64(DefaultSizeHint)
	if size > 0 {
		hint = min(size, maxInitialBuffer)
	}

	var buf bytes.Buffer
	buf.Grow(int(hint))

	// One byte past the limit distinguishes "exactly maxSize" from "too big".
	n, err := buf.ReadFrom(io.LimitReader(s, maxSize+1))
	if err != nil {
		if errors.Is(err, imferr.ErrIO) {
			return nil, err
		}
		return nil, imferr.IO("read", err)
	}
	if n > maxSize {
		return nil, imferr.IO("read", fmt.Errorf("stream exceeds limit %d", maxSize))
	}
	if size >= 0 && n != size {
		return nil, imferr.IO("read", fmt.Errorf("short read: got %d of %d bytes", n, size))
	}
	if n == 0 {
		return nil, imferr.IO("read", errors.New("empty stream"))
	}
	return buf.Bytes(), nil
}
