package stream

import (
	"context"
	"errors"
	"io"
)

const readSize = 4096

// Accumulate drives a new Accumulator from r until end-of-stream. Every
// successful Read is treated as one chunk. Any read error other than io.EOF,
// including cancellation of ctx, fails the accumulation.
func Accumulate(ctx context.Context, r io.Reader, opts ...Option) (string, error) {
	acc := New(opts...)
	buf := make([]byte, readSize)

	for {
		if err := ctx.Err(); err != nil {
			return "", acc.Fail(err)
		}

		n, err := r.Read(buf)
		if n > 0 {
			if _, werr := acc.Write(buf[:n]); werr != nil {
				return "", werr
			}
		}

		if errors.Is(err, io.EOF) {
			return acc.Close()
		}
		if err != nil {
			return "", acc.Fail(err)
		}
	}
}
