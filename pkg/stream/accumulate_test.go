package stream_test

import (
	"context"
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/aitranslate/pkg/stream"
)

// chunkReader returns one chunk per Read call, then err (io.EOF if nil).
type chunkReader struct {
	chunks []string
	err    error
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		if r.err != nil {
			return 0, r.err
		}
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks[0] = r.chunks[0][n:]
	if r.chunks[0] == "" {
		r.chunks = r.chunks[1:]
	}
	return n, nil
}

var _ = Describe("Accumulate", func() {
	ctx := context.Background()

	It("reduces a reader to the concatenated deltas", func() {
		r := &chunkReader{chunks: []string{
			`data: {"choices":[{"delta":{"content":"Hel"}}]}` + "\n",
			`data: {"choices":[{"delta":{"content":"lo"}}]}` + "\n",
			"data: [DONE]\n",
		}}

		result, err := stream.Accumulate(ctx, r)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("Hello"))
	})

	It("reads a whole body from a strings.Reader", func() {
		body := deltaLine("one ") + deltaLine("two") + "data: [DONE]\n"

		result, err := stream.Accumulate(ctx, strings.NewReader(body))
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("one two"))
	})

	It("fails on a transport error before end-of-stream", func() {
		transportErr := errors.New("unexpected EOF from upstream")
		r := &chunkReader{chunks: []string{deltaLine("partial")}, err: transportErr}

		result, err := stream.Accumulate(ctx, r)
		Expect(err).To(MatchError(transportErr))
		Expect(result).To(BeEmpty())
	})

	It("fails when the context is already done", func() {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		result, err := stream.Accumulate(cancelled, strings.NewReader(deltaLine("x")))
		Expect(err).To(MatchError(context.Canceled))
		Expect(result).To(BeEmpty())
	})

	It("succeeds on end-of-stream without a sentinel", func() {
		r := &chunkReader{chunks: []string{deltaLine("no sentinel")}}

		result, err := stream.Accumulate(ctx, r)
		Expect(err).NotTo(HaveOccurred())
		Expect(result).To(Equal("no sentinel"))
	})
})
