package bedrock

import (
	"io"

	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

// Chunk is one event off a response stream. Control is set for events that
// carry no payload (unknown union members); callers decide what to do with
// those.
type Chunk struct {
	Bytes   []byte
	Control bool
}

// ChunkSource is an owned handle to one open response stream. Recv blocks
// until the next event arrives and returns io.EOF on clean end of stream.
// A ChunkSource is not safe for concurrent use and is never shared across
// requests.
type ChunkSource interface {
	Recv() (Chunk, error)
	Close() error
}

type eventStreamSource struct {
	stream *bedrockruntime.InvokeModelWithResponseStreamEventStream
}

func newEventStreamSource(stream *bedrockruntime.InvokeModelWithResponseStreamEventStream) *eventStreamSource {
	return &eventStreamSource{stream: stream}
}

func (s *eventStreamSource) Recv() (Chunk, error) {
	event, ok := <-s.stream.Events()
	if !ok {
		if err := s.stream.Err(); err != nil {
			return Chunk{}, err
		}
		return Chunk{}, io.EOF
	}

	switch v := event.(type) {
	case *types.ResponseStreamMemberChunk:
		return Chunk{Bytes: v.Value.Bytes}, nil
	default:
		return Chunk{Control: true}, nil
	}
}

func (s *eventStreamSource) Close() error {
	return s.stream.Close()
}
