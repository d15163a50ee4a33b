// Package llm wraps the hosted language model the draft generator talks to.
package llm

// ModelTier represents the capability level of a model
type ModelTier string

const (
	// TierLite is for short structured answers
	TierLite ModelTier = "lite"
	// TierStandard is the default for drafting
	TierStandard ModelTier = "standard"
	// TierAdvanced is for longer, more careful plans
	TierAdvanced ModelTier = "advanced"
)

// ParseTier maps a configuration string onto a tier, defaulting to standard.
func ParseTier(s string) ModelTier {
	switch ModelTier(s) {
	case TierLite, TierAdvanced:
		return ModelTier(s)
	default:
		return TierStandard
	}
}

// Config holds the model names per tier
type Config struct {
	Models map[ModelTier]string
}

// DefaultConfig returns the default Gemini configuration
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
	}
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a copy with model pinned for tier. An empty model
// leaves the copy unchanged.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	next := &Config{Models: make(map[ModelTier]string, len(c.Models)+1)}
	for k, v := range c.Models {
		next.Models[k] = v
	}
	if model != "" {
		next.Models[tier] = model
	}
	return next
}
