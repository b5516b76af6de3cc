package classify

import (
	"time"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/types"
)

// Request defines the input contract for the /classify endpoint.
// Exactly one of imageUrl or imageBase64 must be set; prompts is the
// ordered candidate label list.
type Request struct {
	ImageURL    string   `json:"imageUrl,omitempty"`
	ImageBase64 string   `json:"imageBase64,omitempty"`
	Prompts     []string `json:"prompts"`
}

// Response returns all prompt scores in input order plus the best match.
type Response struct {
	RequestID string             `json:"request_id,omitempty"`
	ID        string             `json:"id,omitempty"`
	Model     string             `json:"model"`
	Scores    []classifier.Score `json:"scores"`
	Best      classifier.Score   `json:"best"`
	Success   bool               `json:"success"`
}

// RunSummary is one persisted run as returned by the history endpoints.
type RunSummary struct {
	ID          string    `json:"id"`
	Provider    string    `json:"provider"`
	Model       string    `json:"model"`
	ImageSource string    `json:"imageSource"`
	Prompts     []string  `json:"prompts"`
	Scores      []float64 `json:"scores"`
	BestPrompt  string    `json:"bestPrompt"`
	BestScore   float64   `json:"bestScore"`
	CreatedAt   time.Time `json:"createdAt"`
}

type ListResponse struct {
	Runs    []RunSummary `json:"runs"`
	Count   int          `json:"count"`
	Success bool         `json:"success"`
}

func toSummary(rec *types.ClassificationRecord) RunSummary {
	return RunSummary{
		ID:          rec.ID,
		Provider:    rec.Provider,
		Model:       rec.Model,
		ImageSource: rec.ImageSource,
		Prompts:     rec.Prompts,
		Scores:      rec.Scores,
		BestPrompt:  rec.BestPrompt,
		BestScore:   rec.BestScore,
		CreatedAt:   rec.CreatedAt,
	}
}
