package encoder

import (
	"context"
	"encoding/json"
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/types"
)

func testImage() image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 8), G: uint8(y * 8), B: 40, A: 255})
		}
	}
	return img
}

// fakeClipServer serves the clip-http wire protocol with canned vectors.
func fakeClipServer(t *testing.T, imageVec []float64, textVecs map[string][]float64) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/api/models/load", func(w http.ResponseWriter, r *http.Request) {
		var req types.LoadModelRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.NotEmpty(t, req.Model)
		json.NewEncoder(w).Encode(types.LoadModelResponse{
			Status:    "loaded",
			Dimension: len(imageVec),
		})
	})

	mux.HandleFunc("/api/embed/image", func(w http.ResponseWriter, r *http.Request) {
		var req types.EmbedImageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 3, req.Channels)
		assert.Equal(t, len(req.PixelValues), req.Channels*req.Width*req.Height)
		json.NewEncoder(w).Encode(types.EmbedImageResponse{
			Embedding: append([]float64(nil), imageVec...),
			Dimension: len(imageVec),
		})
	})

	mux.HandleFunc("/api/embed/text", func(w http.ResponseWriter, r *http.Request) {
		var req types.EmbedTextRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		resp := types.EmbedTextResponse{Dimension: len(imageVec)}
		for _, text := range req.Texts {
			vec, ok := textVecs[text]
			require.True(t, ok, "unexpected prompt %q", text)
			resp.Embeddings = append(resp.Embeddings, append([]float64(nil), vec...))
		}
		json.NewEncoder(w).Encode(resp)
	})

	return httptest.NewServer(mux)
}

func clipConfig(serverURL string, dims int) *config.Config {
	return &config.Config{
		Provider:        config.ProviderClipHTTP,
		ModelID:         "openai/clip-vit-base-patch32",
		Device:          "cpu",
		EmbedDimensions: dims,
		ClipServerURL:   serverURL,
	}
}

func TestClipHTTPEncodeImageNormalizes(t *testing.T) {
	srv := fakeClipServer(t, []float64{3, 0, 4, 0}, nil)
	defer srv.Close()

	enc, err := NewClipHTTPEncoder(clipConfig(srv.URL, 4))
	require.NoError(t, err)

	emb, err := enc.EncodeImage(context.Background(), testImage())
	require.NoError(t, err)
	require.Len(t, emb, 4)
	assert.InDelta(t, 1.0, floats.Norm(emb, 2), 1e-5)
	assert.InDelta(t, 0.6, emb[0], 1e-9)
	assert.InDelta(t, 0.8, emb[2], 1e-9)
}

func TestClipHTTPEncodeImageDeterministic(t *testing.T) {
	srv := fakeClipServer(t, []float64{1, 2, 3, 4}, nil)
	defer srv.Close()

	enc, err := NewClipHTTPEncoder(clipConfig(srv.URL, 4))
	require.NoError(t, err)

	first, err := enc.EncodeImage(context.Background(), testImage())
	require.NoError(t, err)
	second, err := enc.EncodeImage(context.Background(), testImage())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestClipHTTPEncodeTexts(t *testing.T) {
	textVecs := map[string][]float64{
		"a photo of a dog": {1, 0, 0, 0},
		"a photo of a cat": {0, 5, 0, 0},
	}
	srv := fakeClipServer(t, []float64{1, 0, 0, 0}, textVecs)
	defer srv.Close()

	enc, err := NewClipHTTPEncoder(clipConfig(srv.URL, 4))
	require.NoError(t, err)

	embs, err := enc.EncodeTexts(context.Background(), []string{"a photo of a dog", "a photo of a cat"})
	require.NoError(t, err)
	require.Len(t, embs, 2)
	for _, emb := range embs {
		assert.InDelta(t, 1.0, floats.Norm(emb, 2), 1e-5)
	}
}

func TestClipHTTPZeroNormEmbedding(t *testing.T) {
	srv := fakeClipServer(t, []float64{0, 0, 0, 0}, nil)
	defer srv.Close()

	enc, err := NewClipHTTPEncoder(clipConfig(srv.URL, 4))
	require.NoError(t, err)

	_, err = enc.EncodeImage(context.Background(), testImage())
	assert.ErrorIs(t, err, classifier.ErrZeroNorm)
}

func TestClipHTTPDimensionFromLoadResponse(t *testing.T) {
	srv := fakeClipServer(t, []float64{1, 0, 0, 0, 0, 0}, nil)
	defer srv.Close()

	// Configured dimension disagrees with the server; the load response wins.
	enc, err := NewClipHTTPEncoder(clipConfig(srv.URL, 512))
	require.NoError(t, err)
	assert.Equal(t, 6, enc.Dimensions())
}

func TestClipHTTPModelLoadFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no such model", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := NewClipHTTPEncoder(clipConfig(srv.URL, 4))
	assert.ErrorIs(t, err, ErrModelLoad)
}

func TestClipHTTPMissingServerURL(t *testing.T) {
	_, err := NewClipHTTPEncoder(clipConfig("", 4))
	assert.ErrorIs(t, err, ErrModelLoad)
}

func TestClipHTTPEncodeTextsEmpty(t *testing.T) {
	srv := fakeClipServer(t, []float64{1, 0, 0, 0}, nil)
	defer srv.Close()

	enc, err := NewClipHTTPEncoder(clipConfig(srv.URL, 4))
	require.NoError(t, err)

	_, err = enc.EncodeTexts(context.Background(), nil)
	assert.Error(t, err)
}
