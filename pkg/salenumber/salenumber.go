// Package salenumber generates short, human-presentable sale identifiers.
//
// Numbers look like "S-3F2A9C01": a fixed prefix plus an opaque suffix
// taken from a random UUID. Uniqueness is NOT guaranteed by generation;
// the store enforces it with a unique constraint on sale_no, and callers
// retry with a fresh suffix when an insert collides.
package salenumber

import (
	"strings"

	"github.com/google/uuid"
)

// DefaultPrefix is used when Config.Prefix is empty.
const DefaultPrefix = "S"

// DefaultSuffixLen is the number of suffix characters (hex digits).
const DefaultSuffixLen = 8

// Generator produces candidate sale numbers.
type Generator interface {
	Next() string
}

// Config holds numbering configuration.
type Config struct {
	// Prefix added to all numbers (e.g., "S")
	Prefix string

	// SuffixLen is the number of suffix characters (max 32)
	SuffixLen int
}

// DefaultConfig returns the standard sale number format.
func DefaultConfig() Config {
	return Config{
		Prefix:    DefaultPrefix,
		SuffixLen: DefaultSuffixLen,
	}
}

// Service implements Generator.
type Service struct {
	cfg Config
}

// New creates a sale number generator.
func New(cfg Config) *Service {
	if cfg.Prefix == "" {
		cfg.Prefix = DefaultPrefix
	}
	if cfg.SuffixLen <= 0 || cfg.SuffixLen > 32 {
		cfg.SuffixLen = DefaultSuffixLen
	}
	return &Service{cfg: cfg}
}

// Next returns a new candidate number, e.g. "S-3F2A9C01".
// Each call draws a fresh suffix, so a retry after a store-level
// collision produces a different number.
func (s *Service) Next() string {
	raw := strings.ReplaceAll(uuid.New().String(), "-", "")
	suffix := strings.ToUpper(raw[:s.cfg.SuffixLen])
	return s.cfg.Prefix + "-" + suffix
}

var _ Generator = (*Service)(nil)
