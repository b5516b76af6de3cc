package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	DatabaseURL     string
	LogLevel        string
	Debug           bool
	ServiceName     string
	Environment     string
	Hostname        string
	ServerPort      string
	WorkerCount     int
	BatchSize       int
	AllowedOrigins  []string
	Provider        string
	ModelID         string
	Device          string
	EmbedDimensions int
	ClipServerURL   string
	ClipAPIKeys     []string
	OpenAIAPIKey    string
	OpenAIBaseURL   string
}

// Known provider names for MODEL_PROVIDER.
const (
	ProviderClipHTTP = "clip-http"
	ProviderOpenAI   = "openai"
)

func LoadConfig() (*Config, error) {
	allowedOrigins := []string{"*"}
	if ao := os.Getenv("ALLOWED_ORIGINS"); ao != "" {
		allowedOrigins = splitAndTrim(ao)
	}

	databaseUrl := os.Getenv("DATABASE_URL")

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}

	debug := os.Getenv("DEBUG")
	if debug == "" {
		debug = "false"
	}

	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "openvocab-classifier"
	}

	hostname := os.Getenv("HOSTNAME")
	if hostname == "" {
		hostname = "openvocab-classifier"
	}

	environment := os.Getenv("ENVIRONMENT")
	if environment == "" {
		environment = "development"
	}

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "8080"
	}

	workerCount := 10 // default value
	if wc := os.Getenv("WORKER_COUNT"); wc != "" {
		if parsed, err := strconv.Atoi(wc); err == nil {
			workerCount = parsed
		}
	}

	batchSize := 100 // default value
	if bs := os.Getenv("BATCH_SIZE"); bs != "" {
		if parsed, err := strconv.Atoi(bs); err == nil {
			batchSize = parsed
		}
	}

	provider := os.Getenv("MODEL_PROVIDER")
	if provider == "" {
		provider = ProviderClipHTTP
	}

	modelID := os.Getenv("MODEL_ID")
	if modelID == "" {
		modelID = "openai/clip-vit-base-patch32"
	}

	device := os.Getenv("MODEL_DEVICE")
	if device == "" {
		device = "cpu"
	}

	embedDimensions := 512 // CLIP ViT-B/32 output size
	if d := os.Getenv("EMBED_DIMENSIONS"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil || parsed <= 0 {
			return nil, errors.New("EMBED_DIMENSIONS must be a positive integer")
		}
		embedDimensions = parsed
	}

	clipServerURL := os.Getenv("CLIP_SERVER_URL")
	if clipServerURL == "" && provider == ProviderClipHTTP {
		return nil, errors.New("CLIP_SERVER_URL is required for the clip-http provider")
	}

	// Load comma-separated API keys for the CLIP inference server
	var clipAPIKeys []string
	if keys := os.Getenv("CLIP_API_KEYS"); keys != "" {
		clipAPIKeys = splitAndTrim(keys)
	}

	return &Config{
		DatabaseURL:     databaseUrl,
		LogLevel:        logLevel,
		Debug:           debug == "true",
		ServiceName:     serviceName,
		Hostname:        hostname,
		Environment:     environment,
		ServerPort:      serverPort,
		WorkerCount:     workerCount,
		BatchSize:       batchSize,
		AllowedOrigins:  allowedOrigins,
		Provider:        provider,
		ModelID:         modelID,
		Device:          device,
		EmbedDimensions: embedDimensions,
		ClipServerURL:   clipServerURL,
		ClipAPIKeys:     clipAPIKeys,
		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
	}, nil
}

func splitAndTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
