// Package titan marshals requests for and responses from the Titan text
// models. The generation configuration is fixed; callers only supply the
// prompt text.
package titan

import (
	"encoding/json"
	"errors"

	"titan-api/internal/shared"
)

type Request struct {
	InputText            string           `json:"inputText"`
	TextGenerationConfig GenerationConfig `json:"textGenerationConfig"`
}

type GenerationConfig struct {
	Temperature   float32  `json:"temperature"`
	TopP          float32  `json:"topP"`
	MaxTokenCount int      `json:"maxTokenCount"`
	StopSequences []string `json:"stopSequences"`
}

type Response struct {
	InputTextTokenCount int      `json:"inputTextTokenCount"`
	Results             []Result `json:"results"`
}

type Result struct {
	TokenCount       int    `json:"tokenCount"`
	OutputText       string `json:"outputText"`
	CompletionReason string `json:"completionReason"`
}

// Encode builds the fixed-config generation request for a prompt.
func Encode(prompt string) ([]byte, error) {
	req := Request{
		InputText: prompt,
		TextGenerationConfig: GenerationConfig{
			Temperature:   shared.Temperature,
			TopP:          shared.TopP,
			MaxTokenCount: shared.MaxTokenCount,
			StopSequences: []string{shared.StopSequence},
		},
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, errors.Join(shared.ErrEncoding, err)
	}
	return payload, nil
}

// Decode parses a provider response body. Both full responses and the
// payload of a single streamed chunk use the same schema.
func Decode(body []byte) (*Response, error) {
	var res Response
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.Join(shared.ErrDecoding, err)
	}
	return &res, nil
}

// FirstText returns the output text of the first result. Any further
// results are ignored.
func FirstText(res *Response) (string, error) {
	if len(res.Results) == 0 {
		return "", shared.ErrEmptyResult
	}
	return res.Results[0].OutputText, nil
}
