package validator

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

var (
	//go:embed data/common_passwords.txt
	commonPasswordsRaw string

	//go:embed data/keyboard_patterns.txt
	keyboardPatternsRaw string

	//go:embed data/sequential_alphabets.txt
	sequentialAlphabetsRaw string
)

var (
	ErrInvalidLengthBounds = errors.New("password policy: min length must be at least 1 and not exceed max length")
	ErrNoAlphabets         = errors.New("password policy: at least one sequential alphabet is required")
	ErrInvalidRunLength    = errors.New("password policy: run lengths must be at least 2")
	ErrEmptyListEntry      = errors.New("password policy: list entries must not be empty")
)

// Policy defaults
const (
	DefaultMinLength              = 8
	DefaultMaxLength              = 128
	DefaultMinSequentialRunLength = 4
	DefaultMinRepeatRunLength     = 3
)

// PolicyConfig holds the thresholds and denylists a password is judged against.
// Build it once at startup and treat it as read-only afterwards; Evaluate never
// modifies it, so it can be shared across goroutines.
type PolicyConfig struct {
	MinLength int
	// MaxLength is enforced by callers, not by Evaluate.
	MaxLength int

	CommonPasswords     []string
	SequentialAlphabets []string
	KeyboardPatterns    []string

	MinSequentialRunLength int
	MinRepeatRunLength     int
}

// PolicyOption customises a PolicyConfig built by NewPolicyConfig.
type PolicyOption func(*PolicyConfig)

func WithLengthBounds(min, max int) PolicyOption {
	return func(c *PolicyConfig) {
		c.MinLength = min
		c.MaxLength = max
	}
}

func WithCommonPasswords(words []string) PolicyOption {
	return func(c *PolicyConfig) {
		c.CommonPasswords = words
	}
}

func WithSequentialAlphabets(alphabets []string) PolicyOption {
	return func(c *PolicyConfig) {
		c.SequentialAlphabets = alphabets
	}
}

func WithKeyboardPatterns(patterns []string) PolicyOption {
	return func(c *PolicyConfig) {
		c.KeyboardPatterns = patterns
	}
}

func WithRunLengths(sequential, repeat int) PolicyOption {
	return func(c *PolicyConfig) {
		c.MinSequentialRunLength = sequential
		c.MinRepeatRunLength = repeat
	}
}

// DefaultPolicyConfig returns the built-in policy backed by the embedded word lists.
func DefaultPolicyConfig() PolicyConfig {
	return PolicyConfig{
		MinLength:              DefaultMinLength,
		MaxLength:              DefaultMaxLength,
		CommonPasswords:        parseList(commonPasswordsRaw),
		SequentialAlphabets:    parseList(sequentialAlphabetsRaw),
		KeyboardPatterns:       parseList(keyboardPatternsRaw),
		MinSequentialRunLength: DefaultMinSequentialRunLength,
		MinRepeatRunLength:     DefaultMinRepeatRunLength,
	}
}

// NewPolicyConfig starts from the defaults, applies opts, lower-cases the
// lists and validates the result.
func NewPolicyConfig(opts ...PolicyOption) (PolicyConfig, error) {
	cfg := DefaultPolicyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	cfg.CommonPasswords = lowerAll(cfg.CommonPasswords)
	cfg.SequentialAlphabets = lowerAll(cfg.SequentialAlphabets)
	cfg.KeyboardPatterns = lowerAll(cfg.KeyboardPatterns)

	if err := cfg.Validate(); err != nil {
		return PolicyConfig{}, err
	}
	return cfg, nil
}

// Validate reports configuration mistakes that would make Evaluate degenerate.
func (c PolicyConfig) Validate() error {
	if c.MinLength < 1 || c.MaxLength < c.MinLength {
		return ErrInvalidLengthBounds
	}
	if len(c.SequentialAlphabets) == 0 {
		return ErrNoAlphabets
	}
	if c.MinSequentialRunLength < 2 || c.MinRepeatRunLength < 2 {
		return ErrInvalidRunLength
	}

	lists := []struct {
		name    string
		entries []string
	}{
		{"sequential alphabets", c.SequentialAlphabets},
		{"common passwords", c.CommonPasswords},
		{"keyboard patterns", c.KeyboardPatterns},
	}
	for _, list := range lists {
		for i, entry := range list.entries {
			if entry == "" {
				return fmt.Errorf("%w: %s[%d]", ErrEmptyListEntry, list.name, i)
			}
		}
	}
	return nil
}

// parseList splits an embedded word list, one entry per line. Blank lines and
// lines starting with '#' are skipped.
func parseList(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, strings.ToLower(line))
	}
	return out
}

func lowerAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToLower(s)
	}
	return out
}
