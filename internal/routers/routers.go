// Package routers
package routers

import (
	"titan-api/internal/bedrock"
	"titan-api/internal/handlers/generate"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

func RegisterGenerateRoutes(e *echo.Group, client bedrock.Invoker, log *zap.SugaredLogger) {
	h := generate.NewHandler(client, log)

	e.POST("/prompt", h.Prompt)
	e.POST("/prompt/streamed", h.PromptStreamed)
}
