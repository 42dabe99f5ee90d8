package semantic

import (
	"fmt"
	"strings"

	"github.com/rmaragno/sigilo/internal/model"
)

// NewValidator creates a validator from configuration. An empty provider
// disables semantic validation entirely: the caller receives (nil, nil) and
// runs lexical-only.
func NewValidator(cfg model.ValidatorConfig) (Validator, error) {
	switch strings.ToLower(cfg.Provider) {
	case "openai":
		return NewOpenAIValidator(cfg)
	case "":
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown validator provider: %s (supported: openai)", cfg.Provider)
	}
}
