package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"titan-api/internal/bedrock"
	"titan-api/internal/middleware"
	"titan-api/internal/routers"
	"titan-api/internal/shared"

	"github.com/labstack/echo/v4"
	emw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/manifold-inc/manifold-sdk/lib/eflag"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Flags / ENV Variables
	awsAccessKeyID := flag.String("aws-access-key-id", "", "AWS access key id")
	awsSecretAccessKey := flag.String("aws-secret-access-key", "", "AWS secret access key")
	awsURL := flag.String("aws-url", "", "Bedrock endpoint URL")
	metricsAPIKey := flag.String("metrics-api-key", "", "Metrics api key")
	listenAddr := flag.String("listen", shared.DefaultListenAddr, "Listen address")
	debug := flag.Bool("debug", false, "Debug enabled")

	err := eflag.SetFlagsFromEnvironment()
	if err != nil {
		panic(err)
	}
	flag.Parse()

	// Bedrock client init. The three secrets are required; fail fast.
	client, err := bedrock.New(context.Background(), bedrock.Config{
		AccessKeyID:     *awsAccessKeyID,
		SecretAccessKey: *awsSecretAccessKey,
		EndpointURL:     *awsURL,
	})
	if err != nil {
		panic(fmt.Sprintf("failed initializing bedrock client: %s", err))
	}

	var logger *zap.Logger
	if !*debug {
		logger, err = zap.NewProduction()
		if err != nil {
			panic("Failed init logger")
		}
	}
	if *debug {
		logger, err = zap.NewDevelopment()
		if err != nil {
			panic("Failed init logger")
		}
	}
	log := logger.Sugar()

	e := echo.New()
	e.GET("/", func(c echo.Context) error {
		return c.String(200, "Hello, world!")
	})
	e.GET("/ping", func(c echo.Context) error {
		return c.String(200, "")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()), func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			apiKey, err := shared.ExtractAPIKey(c)
			if err != nil {
				return c.String(401, "Missing or invalid API key")
			}

			if apiKey != *metricsAPIKey {
				return c.String(401, "Unauthorized API key")
			}
			return next(c)
		}
	})
	base := e.Group("")
	base.Use(emw.CORS())
	base.Use(middleware.NewRecoverMiddleware(log))
	base.Use(middleware.NewTrackMiddleware(log))

	// Register routes
	routers.RegisterGenerateRoutes(base, client, log)

	go func() {
		if err := e.Start(*listenAddr); err != nil && err != http.ErrServerClosed {
			e.Logger.Fatal("shutting down the server")
		}
	}()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Wait for interrupt signal to gracefully shut down the server
	<-ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), shared.DefaultShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		e.Logger.Fatal(err)
	}
}
