package generate

import (
	"errors"
	"io"

	"titan-api/internal/bedrock"
	"titan-api/internal/metrics"
	"titan-api/internal/titan"

	"go.uber.org/zap"
)

// FragmentStream adapts one open ChunkSource into a pull-based sequence of
// text fragments. Each Next performs exactly one receive, so the upstream
// channel is only drained as fast as the caller writes fragments out. Once
// closed, by any terminating condition or by Close, a FragmentStream stays
// closed; a new request opens a new source.
type FragmentStream struct {
	src    bedrock.ChunkSource
	log    *zap.SugaredLogger
	closed bool
}

func NewFragmentStream(src bedrock.ChunkSource, log *zap.SugaredLogger) *FragmentStream {
	return &FragmentStream{src: src, log: log}
}

// Next returns the next text fragment in chunk arrival order. The second
// return is false once the stream has ended, whether cleanly or not. The
// wire format downstream is a flat text stream with no room for an error
// frame, so every failure terminates the sequence silently and lands in the
// logs instead.
func (s *FragmentStream) Next() (string, bool) {
	if s.closed {
		return "", false
	}

	chunk, err := s.src.Recv()
	if err != nil {
		if !errors.Is(err, io.EOF) {
			s.log.Warnw("response stream failed mid-stream", "error", err)
			metrics.StreamFailures.WithLabelValues("channel").Inc()
		}
		s.closed = true
		return "", false
	}

	// Titan streams carry a single data-bearing event member; any other
	// event ends the stream.
	if chunk.Control {
		s.closed = true
		return "", false
	}

	res, err := titan.Decode(chunk.Bytes)
	if err != nil {
		s.log.Warnw("failed decoding stream chunk", "error", err)
		metrics.StreamFailures.WithLabelValues("decode").Inc()
		s.closed = true
		return "", false
	}

	text, err := titan.FirstText(res)
	if err != nil {
		s.log.Warnw("stream chunk contained no results")
		metrics.StreamFailures.WithLabelValues("empty_result").Inc()
		s.closed = true
		return "", false
	}

	return text, true
}

// Close releases the underlying source. Safe to call after the stream has
// already terminated.
func (s *FragmentStream) Close() error {
	s.closed = true
	return s.src.Close()
}
