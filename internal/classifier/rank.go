// Package classifier ranks candidate text prompts against an image embedding.
package classifier

import (
	"errors"
	"fmt"
)

// ErrNoPrompts is returned when the candidate prompt list is empty.
var ErrNoPrompts = errors.New("empty prompt list")

// Score pairs a prompt with its cosine similarity to the image.
type Score struct {
	Prompt string  `json:"prompt"`
	Score  float64 `json:"score"`
}

// Result holds all prompt scores in input order plus the best match.
type Result struct {
	Scores    []Score `json:"scores"`
	Best      Score   `json:"best"`
	BestIndex int     `json:"bestIndex"`
}

// Rank computes the dot product of the image embedding with every text
// embedding and selects the maximum. Scores keep the input prompt order;
// on ties the first occurrence wins.
func Rank(imageEmb []float64, prompts []string, textEmbs [][]float64) (*Result, error) {
	if len(prompts) == 0 {
		return nil, ErrNoPrompts
	}
	if len(textEmbs) != len(prompts) {
		return nil, fmt.Errorf("got %d embeddings for %d prompts", len(textEmbs), len(prompts))
	}

	result := &Result{
		Scores: make([]Score, len(prompts)),
	}

	for i, emb := range textEmbs {
		score, err := Dot(imageEmb, emb)
		if err != nil {
			return nil, fmt.Errorf("prompt %d: %w", i, err)
		}
		result.Scores[i] = Score{Prompt: prompts[i], Score: score}

		if i == 0 || score > result.Best.Score {
			result.Best = result.Scores[i]
			result.BestIndex = i
		}
	}

	return result, nil
}
