package encoder

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"

	openai "github.com/sashabaranov/go-openai"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/config"
)

// OpenAIEncoder targets OpenAI-compatible embedding gateways that serve
// CLIP-family models (Infinity, LocalAI and friends). Text prompts travel
// as plain inputs; images as base64 data URIs. Preprocessing is server-side.
type OpenAIEncoder struct {
	client     *openai.Client
	model      string
	dimensions int
}

func NewOpenAIEncoder(cfg *config.Config) (*OpenAIEncoder, error) {
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrModelLoad)
	}

	clientCfg := openai.DefaultConfig(cfg.OpenAIAPIKey)
	if cfg.OpenAIBaseURL != "" {
		clientCfg.BaseURL = cfg.OpenAIBaseURL
	}

	return &OpenAIEncoder{
		client:     openai.NewClientWithConfig(clientCfg),
		model:      cfg.ModelID,
		dimensions: cfg.EmbedDimensions,
	}, nil
}

// EncodeImage re-encodes the bitmap as JPEG and sends it as a data URI.
func (e *OpenAIEncoder) EncodeImage(ctx context.Context, img image.Image) ([]float64, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	dataURI := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(buf.Bytes())

	vectors, err := e.embed(ctx, []string{dataURI})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

func (e *OpenAIEncoder) EncodeTexts(ctx context.Context, prompts []string) ([][]float64, error) {
	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompts provided")
	}
	return e.embed(ctx, prompts)
}

func (e *OpenAIEncoder) Dimensions() int { return e.dimensions }

func (e *OpenAIEncoder) Model() string { return e.model }

func (e *OpenAIEncoder) embed(ctx context.Context, inputs []string) ([][]float64, error) {
	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: inputs,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Data) != len(inputs) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(inputs), len(resp.Data))
	}

	vectors := make([][]float64, len(resp.Data))
	for i, item := range resp.Data {
		if len(item.Embedding) != e.dimensions {
			return nil, fmt.Errorf("input %d: expected %d dimensions, got %d", i, e.dimensions, len(item.Embedding))
		}
		vec := make([]float64, len(item.Embedding))
		for j, v := range item.Embedding {
			vec[j] = float64(v)
		}
		if _, err := classifier.Normalize(vec); err != nil {
			return nil, fmt.Errorf("input %d: %w", i, err)
		}
		vectors[i] = vec
	}
	return vectors, nil
}
