package classify

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/3Dimaging-ucl/openvocab/internal/imaging"
	"github.com/3Dimaging-ucl/openvocab/internal/loaders"
	"github.com/3Dimaging-ucl/openvocab/internal/types"
	"github.com/3Dimaging-ucl/openvocab/internal/utils"
)

// Service orchestrates image acquisition, dual-encoder calls, ranking
// and run persistence.
type Service struct {
	db         *loaders.PostgresClient
	cfg        *config.Config
	enc        encoder.DualEncoder
	downloader *utils.FileDownloader
}

func NewService(db *loaders.PostgresClient, cfg *config.Config, enc encoder.DualEncoder) *Service {
	return &Service{
		db:         db,
		cfg:        cfg,
		enc:        enc,
		downloader: utils.NewFileDownloader(),
	}
}

// Classify runs the full zero-shot pipeline for one request. Prompts are
// validated before any fetch or encoding happens; errors surface
// immediately with no partial results.
func (s *Service) Classify(ctx context.Context, req *Request) (*types.ClassificationRecord, *classifier.Result, error) {
	if req == nil {
		return nil, nil, fmt.Errorf("nil request")
	}
	if len(req.Prompts) == 0 {
		return nil, nil, classifier.ErrNoPrompts
	}

	imageBytes, source, err := s.acquireImage(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	img, format, err := imaging.Decode(imageBytes)
	if err != nil {
		return nil, nil, err
	}
	utils.Zlog.Debug("decoded input image",
		zap.String("format", format),
		zap.String("source", source))

	imageEmb, err := s.enc.EncodeImage(ctx, img)
	if err != nil {
		return nil, nil, fmt.Errorf("image encoding failed: %w", err)
	}

	textEmbs, err := s.enc.EncodeTexts(ctx, req.Prompts)
	if err != nil {
		return nil, nil, fmt.Errorf("text encoding failed: %w", err)
	}

	result, err := classifier.Rank(imageEmb, req.Prompts, textEmbs)
	if err != nil {
		return nil, nil, err
	}

	rec := &types.ClassificationRecord{
		ID:          uuid.NewString(),
		Provider:    s.cfg.Provider,
		Model:       s.enc.Model(),
		ImageSource: source,
		Prompts:     req.Prompts,
		Scores:      scoreValues(result.Scores),
		BestPrompt:  result.Best.Prompt,
		BestScore:   result.Best.Score,
		Embedding:   imageEmb,
		CreatedAt:   time.Now().UTC(),
	}

	if s.db != nil {
		if err := s.db.InsertClassification(ctx, rec); err != nil {
			// Persistence is bookkeeping; the classification itself succeeded.
			utils.Zlog.Warn("failed to persist classification run",
				zap.String("id", rec.ID), zap.Error(err))
		}
	}

	return rec, result, nil
}

// GetRun fetches a persisted run by id.
func (s *Service) GetRun(ctx context.Context, id string) (*types.ClassificationRecord, error) {
	if s.db == nil {
		return nil, errors.New("history storage is not configured")
	}
	return s.db.GetClassification(ctx, id)
}

// ListRuns returns the most recent persisted runs.
func (s *Service) ListRuns(ctx context.Context, limit int) ([]*types.ClassificationRecord, error) {
	if s.db == nil {
		return nil, errors.New("history storage is not configured")
	}
	return s.db.ListClassifications(ctx, limit)
}

func (s *Service) acquireImage(ctx context.Context, req *Request) ([]byte, string, error) {
	switch {
	case req.ImageURL != "":
		file, err := s.downloader.DownloadFile(ctx, req.ImageURL, "image/")
		if err != nil {
			return nil, "", err
		}
		return file.Content, req.ImageURL, nil
	case req.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(req.ImageBase64)
		if err != nil {
			return nil, "", fmt.Errorf("%w: invalid base64 image: %v", imaging.ErrDecode, err)
		}
		return data, "inline", nil
	default:
		return nil, "", errors.New("either imageUrl or imageBase64 is required")
	}
}

func scoreValues(scores []classifier.Score) []float64 {
	values := make([]float64, len(scores))
	for i, s := range scores {
		values[i] = s.Score
	}
	return values
}
