// Package bedrock wraps the AWS Bedrock runtime client behind the two
// invocation shapes this service needs.
package bedrock

import (
	"context"
	"errors"
	"fmt"

	"titan-api/internal/shared"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

// Invoker is what handlers depend on. The concrete Client carries no
// per-request state, so a single instance is shared by all requests.
type Invoker interface {
	InvokeOnce(ctx context.Context, payload []byte) ([]byte, error)
	InvokeStreaming(ctx context.Context, payload []byte) (ChunkSource, error)
}

type Config struct {
	AccessKeyID     string
	SecretAccessKey string
	EndpointURL     string
}

type Client struct {
	runtime *bedrockruntime.Client
	modelID string
}

func New(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" || cfg.EndpointURL == "" {
		return nil, errors.New("missing bedrock credentials or endpoint")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(shared.Region),
		// No session token, static keys only
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed loading aws config: %w", err)
	}

	runtime := bedrockruntime.NewFromConfig(awsCfg, func(o *bedrockruntime.Options) {
		o.BaseEndpoint = aws.String(cfg.EndpointURL)
	})

	return &Client{runtime: runtime, modelID: shared.ModelID}, nil
}

// InvokeOnce runs a single request/response round trip and returns the raw
// response body.
func (c *Client) InvokeOnce(ctx context.Context, payload []byte) ([]byte, error) {
	out, err := c.runtime.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model: %w", err)
	}
	return out.Body, nil
}

// InvokeStreaming opens a response stream. The returned ChunkSource is owned
// by the caller and must be closed.
func (c *Client) InvokeStreaming(ctx context.Context, payload []byte) (ChunkSource, error) {
	out, err := c.runtime.InvokeModelWithResponseStream(ctx, &bedrockruntime.InvokeModelWithResponseStreamInput{
		ModelId:     aws.String(c.modelID),
		Body:        payload,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return nil, fmt.Errorf("invoke model with response stream: %w", err)
	}
	return newEventStreamSource(out.GetStream()), nil
}
