package types

import "time"

// ClassificationRecord is one persisted zero-shot classification run.
type ClassificationRecord struct {
	ID          string
	Provider    string
	Model       string
	ImageSource string
	Prompts     []string
	Scores      []float64
	BestPrompt  string
	BestScore   float64
	Embedding   []float64
	CreatedAt   time.Time
}
