// classify runs one zero-shot classification from the command line:
// embed an image, embed candidate prompts, print cosine scores and the
// best match.
//
// Usage:
//
//	classify -image https://example.com/dog.jpg "a photo of a dog" "a photo of a cat"
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/3Dimaging-ucl/openvocab/internal/classifier"
	"github.com/3Dimaging-ucl/openvocab/internal/config"
	"github.com/3Dimaging-ucl/openvocab/internal/encoder"
	"github.com/3Dimaging-ucl/openvocab/internal/imaging"
	"github.com/3Dimaging-ucl/openvocab/internal/utils"
)

func main() {
	imageSource := flag.String("image", "", "image URL or local file path (required)")
	promptsFlag := flag.String("prompts", "", "comma-separated candidate prompts (alternative to positional args)")
	provider := flag.String("provider", "", "model provider override (clip-http or openai)")
	model := flag.String("model", "", "model identifier override")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall timeout")
	flag.Parse()

	if err := run(*imageSource, *promptsFlag, flag.Args(), *provider, *model, *timeout); err != nil {
		fmt.Fprintf(os.Stderr, "classify: %v\n", err)
		os.Exit(1)
	}
}

func run(imageSource, promptsFlag string, args []string, provider, model string, timeout time.Duration) error {
	if imageSource == "" {
		return fmt.Errorf("-image is required")
	}

	prompts := collectPrompts(promptsFlag, args)
	if len(prompts) == 0 {
		return classifier.ErrNoPrompts
	}

	_ = godotenv.Load()

	// Flag overrides go through the environment so LoadConfig validates
	// the provider-specific settings consistently.
	if provider != "" {
		os.Setenv("MODEL_PROVIDER", provider)
	}
	if model != "" {
		os.Setenv("MODEL_ID", model)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	cleanup := utils.InitLogger(cfg)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	enc, err := encoder.New(cfg)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}

	imageBytes, err := readImage(ctx, imageSource)
	if err != nil {
		return err
	}

	img, _, err := imaging.Decode(imageBytes)
	if err != nil {
		return err
	}

	imageEmb, err := enc.EncodeImage(ctx, img)
	if err != nil {
		return fmt.Errorf("image encoding failed: %w", err)
	}

	textEmbs, err := enc.EncodeTexts(ctx, prompts)
	if err != nil {
		return fmt.Errorf("text encoding failed: %w", err)
	}

	result, err := classifier.Rank(imageEmb, prompts, textEmbs)
	if err != nil {
		return err
	}

	for _, score := range result.Scores {
		fmt.Printf("Prompt: %s | Similarity score: %.4f\n", score.Prompt, score.Score)
	}
	fmt.Printf("Best match: %s (score %.4f)\n", result.Best.Prompt, result.Best.Score)
	return nil
}

func collectPrompts(promptsFlag string, args []string) []string {
	var prompts []string
	if promptsFlag != "" {
		for _, p := range strings.Split(promptsFlag, ",") {
			p = strings.TrimSpace(p)
			if p != "" {
				prompts = append(prompts, p)
			}
		}
	}
	for _, p := range args {
		if p != "" {
			prompts = append(prompts, p)
		}
	}
	return prompts
}

func readImage(ctx context.Context, source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		file, err := utils.NewFileDownloader().DownloadFile(ctx, source, "image/")
		if err != nil {
			return nil, err
		}
		return file.Content, nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return data, nil
}
