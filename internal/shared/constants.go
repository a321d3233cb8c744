package shared

import "time"

// HTTP Server Configuration
const (
	DefaultListenAddr      = ":80"
	DefaultShutdownTimeout = 10 * time.Second
)

// Bedrock Configuration
const (
	ModelID = "amazon.titan-text-lite-v1:0:4k"
	Region  = "eu-west-1"
)

// Generation Configuration. These are fixed per request; no per-request
// override is exposed.
const (
	Temperature   float32 = 0.0
	TopP          float32 = 0.0
	MaxTokenCount         = 100
	StopSequence          = "|"
)
