package linguist

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
)

// OutputMode selects whose locale wins when a message is sent on behalf of a
// user inside a channel.
type OutputMode string

const (
	PreferUser    OutputMode = "prefer-user"
	PreferChannel OutputMode = "prefer-channel"
)

// MatchMode controls how incoming text is matched against localized templates.
// The engine only validates it; command parsers consume it.
type MatchMode string

const (
	MatchStrict       MatchMode = "strict"
	MatchPreferInput  MatchMode = "prefer-input"
	MatchPreferOutput MatchMode = "prefer-output"
)

// DefaultMinSimilarity is the Find threshold when none is configured.
const DefaultMinSimilarity = 0.4

// DefaultLocales is the fallback order used when no locale list is configured.
var DefaultLocales = []string{"zh-CN", "en-US", "fr-FR", "ja-JP", "de-DE", "ru-RU"}

// Config 定义 i18n 的基础配置，可以直接从环境变量读取
type Config struct {
	// Locales 可用的语言列表，按照回退顺序排列
	Locales       []string   `env:"I18N_LOCALES" envSeparator:","`
	Output        OutputMode `env:"I18N_OUTPUT" envDefault:"prefer-channel"`
	Match         MatchMode  `env:"I18N_MATCH" envDefault:"strict"`
	MinSimilarity float64    `env:"I18N_MIN_SIMILARITY" envDefault:"0.4"`
}

// DefaultConfig returns the configuration used when nothing is supplied.
func DefaultConfig() Config {
	return Config{
		Locales:       slices.Clone(DefaultLocales),
		Output:        PreferChannel,
		Match:         MatchStrict,
		MinSimilarity: DefaultMinSimilarity,
	}
}

// LoadConfig reads the configuration from the environment and validates it.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if len(cfg.Locales) == 0 {
		cfg.Locales = slices.Clone(DefaultLocales)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks enumerated options and ranges.
func (c Config) Validate() error {
	switch c.Output {
	case PreferUser, PreferChannel:
	default:
		return fmt.Errorf("%w: output must be %q or %q, got %q", ErrInvalidConfig, PreferUser, PreferChannel, c.Output)
	}
	switch c.Match {
	case MatchStrict, MatchPreferInput, MatchPreferOutput:
	default:
		return fmt.Errorf("%w: unknown match mode %q", ErrInvalidConfig, c.Match)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("%w: min similarity %v out of range [0, 1]", ErrInvalidConfig, c.MinSimilarity)
	}
	return nil
}

// Preference merges user and channel locale preferences into the requested
// locale list for Render, ordered by Output. Duplicates are dropped.
func (c Config) Preference(user, channel []string) []string {
	first, second := channel, user
	if c.Output == PreferUser {
		first, second = user, channel
	}
	out := make([]string, 0, len(first)+len(second))
	for _, code := range slices.Concat(first, second) {
		if code == "" || slices.Contains(out, code) {
			continue
		}
		out = append(out, code)
	}
	return out
}
