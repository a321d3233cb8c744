package generate

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"titan-api/internal/metrics"
	"titan-api/internal/setup"
	"titan-api/internal/shared"

	"github.com/labstack/echo/v4"
)

type PromptRequest struct {
	Prompt string `json:"prompt"`
}

func readPrompt(c *setup.Context) (string, error) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		c.Log.Errorw("Failed to read request body", "error", err.Error())
		return "", err
	}
	var req PromptRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return "", err
	}
	return req.Prompt, nil
}

// Prompt handles the single request/response path.
func (h *Handler) Prompt(cc echo.Context) error {
	c := cc.(*setup.Context)

	prompt, err := readPrompt(c)
	if err != nil {
		metrics.RequestCount.WithLabelValues("prompt", "error").Inc()
		return c.String(http.StatusBadRequest, shared.ErrInvalidRequest.Err.Error())
	}

	text, err := h.generate(c.Request().Context(), prompt)
	if err != nil {
		var rerr *shared.RequestError
		if !errors.As(err, &rerr) {
			rerr = shared.ErrInternalServerError
		}
		if rerr.StatusCode >= 500 {
			c.Log.Errorw("Prompt request failed", "error", err.Error())
		}
		metrics.RequestCount.WithLabelValues("prompt", "error").Inc()
		return c.String(rerr.StatusCode, rerr.Err.Error())
	}

	metrics.RequestCount.WithLabelValues("prompt", "success").Inc()
	return c.String(http.StatusOK, text)
}

// PromptStreamed handles the chunked plain-text path. Once the 200 header
// has been written, failures can only end the body early.
func (h *Handler) PromptStreamed(cc echo.Context) error {
	c := cc.(*setup.Context)

	prompt, err := readPrompt(c)
	if err != nil {
		metrics.RequestCount.WithLabelValues("prompt_streamed", "error").Inc()
		return c.String(http.StatusBadRequest, shared.ErrInvalidRequest.Err.Error())
	}

	frags, err := h.openStream(c.Request().Context(), prompt, c.Log)
	if err != nil {
		var rerr *shared.RequestError
		if !errors.As(err, &rerr) {
			rerr = shared.ErrInternalServerError
		}
		c.Log.Errorw("Failed opening response stream", "error", err.Error())
		metrics.RequestCount.WithLabelValues("prompt_streamed", "error").Inc()
		return c.String(rerr.StatusCode, rerr.Err.Error())
	}
	defer func() {
		if err := frags.Close(); err != nil {
			c.Log.Warnw("Failed to close response stream", "error", err)
		}
	}()

	setupStreamHeaders(c)

	start := time.Now()
	fragments := 0
	for {
		if c.Request().Context().Err() != nil {
			break
		}
		text, ok := frags.Next()
		if !ok {
			break
		}
		if fragments == 0 {
			metrics.TimeToFirstFragment.WithLabelValues("prompt_streamed").Observe(time.Since(start).Seconds())
		}
		if _, err := fmt.Fprint(c.Response(), text); err != nil {
			break
		}
		c.Response().Flush()
		fragments++
	}

	metrics.StreamFragments.WithLabelValues("prompt_streamed").Observe(float64(fragments))
	metrics.RequestCount.WithLabelValues("prompt_streamed", "success").Inc()
	return nil
}

func setupStreamHeaders(c *setup.Context) {
	c.Response().Header().Set("Content-Type", "text/plain; charset=utf-8")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")
	c.Response().WriteHeader(http.StatusOK)
}
