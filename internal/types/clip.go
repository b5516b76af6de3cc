package types

// Wire types for the CLIP inference server spoken by the clip-http provider.

type LoadModelRequest struct {
	Model  string `json:"model"`
	Device string `json:"device,omitempty"`
}

type LoadModelResponse struct {
	Status    string `json:"status"`
	Dimension int    `json:"dimension,omitempty"`
	Message   string `json:"message,omitempty"`
}

// EmbedImageRequest carries a preprocessed CHW pixel tensor.
type EmbedImageRequest struct {
	Model       string    `json:"model"`
	PixelValues []float32 `json:"pixel_values"`
	Width       int       `json:"width"`
	Height      int       `json:"height"`
	Channels    int       `json:"channels"`
}

type EmbedImageResponse struct {
	Embedding []float64 `json:"embedding"`
	Dimension int       `json:"dimension"`
}

type EmbedTextRequest struct {
	Model string   `json:"model"`
	Texts []string `json:"texts"`
}

type EmbedTextResponse struct {
	Embeddings [][]float64 `json:"embeddings"`
	Dimension  int         `json:"dimension"`
}
