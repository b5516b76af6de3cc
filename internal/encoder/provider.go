package encoder

import (
	"fmt"

	"github.com/3Dimaging-ucl/openvocab/internal/config"
)

// New returns a ready dual encoder for the configured provider, or
// ErrModelLoad when the provider is unknown or the model cannot be loaded.
func New(cfg *config.Config) (DualEncoder, error) {
	switch cfg.Provider {
	case config.ProviderClipHTTP:
		return NewClipHTTPEncoder(cfg)
	case config.ProviderOpenAI:
		return NewOpenAIEncoder(cfg)
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrModelLoad, cfg.Provider)
	}
}
