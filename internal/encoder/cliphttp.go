package encoder

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/imaging"
	"github.com/3Dimaging-ucl/openvocab/internal/types"
)

// ClipHTTPEncoder talks to a dedicated CLIP inference server over JSON.
// Image preprocessing (resize, crop, pixel normalization) happens here;
// the server only runs the transformer branches.
type ClipHTTPEncoder struct {
	apiKeys     []string
	client      *http.Client
	baseURL     string
	model       string
	dimensions  int
	inputSize   int
	keyIndex    uint64        // atomic counter for round-robin key selection
	rateLimiter chan struct{} // global rate limiter across all workers
}

// NewClipHTTPEncoder loads the requested model on the inference server and
// returns a ready encoder. A server that rejects the (model, device) pair
// surfaces as ErrModelLoad.
func NewClipHTTPEncoder(cfg *config.Config) (*ClipHTTPEncoder, error) {
	if cfg.ClipServerURL == "" {
		return nil, fmt.Errorf("%w: CLIP server URL is not configured", ErrModelLoad)
	}
	maxConcurrentRequests := 5

	e := &ClipHTTPEncoder{
		apiKeys:     cfg.ClipAPIKeys,
		client:      &http.Client{Timeout: 60 * time.Second},
		baseURL:     cfg.ClipServerURL,
		model:       cfg.ModelID,
		dimensions:  cfg.EmbedDimensions,
		inputSize:   imaging.DefaultInputSize,
		rateLimiter: make(chan struct{}, maxConcurrentRequests),
	}

	if err := e.loadModel(context.Background(), cfg.Device); err != nil {
		return nil, err
	}
	return e, nil
}

// getNextKey returns the next API key using round-robin selection
func (e *ClipHTTPEncoder) getNextKey() string {
	if len(e.apiKeys) == 0 {
		return ""
	}
	if len(e.apiKeys) == 1 {
		return e.apiKeys[0]
	}
	idx := atomic.AddUint64(&e.keyIndex, 1)
	return e.apiKeys[idx%uint64(len(e.apiKeys))]
}

func (e *ClipHTTPEncoder) loadModel(ctx context.Context, device string) error {
	req := types.LoadModelRequest{Model: e.model, Device: device}

	var resp types.LoadModelResponse
	if err := e.post(ctx, "/api/models/load", req, &resp); err != nil {
		return fmt.Errorf("%w: %v", ErrModelLoad, err)
	}
	if resp.Status == "error" {
		return fmt.Errorf("%w: %s", ErrModelLoad, resp.Message)
	}
	if resp.Dimension > 0 {
		e.dimensions = resp.Dimension
	}
	return nil
}

// EncodeImage preprocesses the bitmap and runs the vision branch.
func (e *ClipHTTPEncoder) EncodeImage(ctx context.Context, img image.Image) ([]float64, error) {
	tensor := imaging.Preprocess(img, e.inputSize, imaging.ClipMean, imaging.ClipStd)

	req := types.EmbedImageRequest{
		Model:       e.model,
		PixelValues: tensor.Data,
		Width:       tensor.Width,
		Height:      tensor.Height,
		Channels:    tensor.Channels,
	}

	var resp types.EmbedImageResponse
	if err := e.post(ctx, "/api/embed/image", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embedding) != e.dimensions {
		return nil, fmt.Errorf("expected %d dimensions, got %d", e.dimensions, len(resp.Embedding))
	}

	return classifier.Normalize(resp.Embedding)
}

// EncodeTexts runs the text branch on all prompts in one batched call.
func (e *ClipHTTPEncoder) EncodeTexts(ctx context.Context, prompts []string) ([][]float64, error) {
	if len(prompts) == 0 {
		return nil, fmt.Errorf("no prompts provided")
	}

	req := types.EmbedTextRequest{Model: e.model, Texts: prompts}

	var resp types.EmbedTextResponse
	if err := e.post(ctx, "/api/embed/text", req, &resp); err != nil {
		return nil, err
	}

	if len(resp.Embeddings) != len(prompts) {
		return nil, fmt.Errorf("expected %d embeddings, got %d", len(prompts), len(resp.Embeddings))
	}

	for i, emb := range resp.Embeddings {
		if len(emb) != e.dimensions {
			return nil, fmt.Errorf("prompt %d: expected %d dimensions, got %d", i, e.dimensions, len(emb))
		}
		if _, err := classifier.Normalize(emb); err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
	}

	return resp.Embeddings, nil
}

func (e *ClipHTTPEncoder) Dimensions() int { return e.dimensions }

func (e *ClipHTTPEncoder) Model() string { return e.model }

func (e *ClipHTTPEncoder) post(ctx context.Context, path string, payload, out any) error {
	select {
	case e.rateLimiter <- struct{}{}:
		defer func() { <-e.rateLimiter }()
	case <-ctx.Done():
		return ctx.Err()
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", e.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	if key := e.getNextKey(); key != "" {
		req.Header.Set("Authorization", "Bearer "+key)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("server returned status %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
