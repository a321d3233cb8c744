// Package generate
package generate

import (
	"context"
	"errors"

	"titan-api/internal/bedrock"
	"titan-api/internal/shared"
	"titan-api/internal/titan"

	"go.uber.org/zap"
)

type Handler struct {
	Client bedrock.Invoker
	Log    *zap.SugaredLogger
}

func NewHandler(client bedrock.Invoker, log *zap.SugaredLogger) *Handler {
	return &Handler{Client: client, Log: log}
}

// generate runs the non-streaming round trip. Errors come back as
// RequestError so the HTTP layer can map them straight onto a status code.
func (h *Handler) generate(ctx context.Context, prompt string) (string, error) {
	payload, err := titan.Encode(prompt)
	if err != nil {
		return "", errors.Join(&shared.RequestError{StatusCode: 400, Err: shared.ErrEncoding}, err)
	}

	body, err := h.Client.InvokeOnce(ctx, payload)
	if err != nil {
		return "", errors.Join(shared.ErrUpstreamFailure, err)
	}

	res, err := titan.Decode(body)
	if err != nil {
		return "", errors.Join(&shared.RequestError{StatusCode: 500, Err: shared.ErrDecoding}, err)
	}

	text, err := titan.FirstText(res)
	if err != nil {
		return "", errors.Join(&shared.RequestError{StatusCode: 500, Err: shared.ErrEmptyResult}, err)
	}

	return text, nil
}

// openStream runs the front half of the streaming path, up to but not
// including the first chunk pull. Past this point no HTTP status can be
// changed, so all remaining failures are the FragmentStream's to swallow.
// The logger is the request-scoped one so mid-stream failures carry the
// request id.
func (h *Handler) openStream(ctx context.Context, prompt string, log *zap.SugaredLogger) (*FragmentStream, error) {
	payload, err := titan.Encode(prompt)
	if err != nil {
		return nil, errors.Join(&shared.RequestError{StatusCode: 400, Err: shared.ErrEncoding}, err)
	}

	src, err := h.Client.InvokeStreaming(ctx, payload)
	if err != nil {
		return nil, errors.Join(shared.ErrUpstreamFailure, err)
	}

	return NewFragmentStream(src, log), nil
}
