package salenumber

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext_Format(t *testing.T) {
	svc := New(DefaultConfig())

	num := svc.Next()
	require.True(t, strings.HasPrefix(num, "S-"), "number %q should start with S-", num)

	suffix := strings.TrimPrefix(num, "S-")
	assert.Len(t, suffix, DefaultSuffixLen)
	assert.Equal(t, strings.ToUpper(suffix), suffix)
	for _, r := range suffix {
		assert.Contains(t, "0123456789ABCDEF", string(r))
	}
}

func TestNext_CustomConfig(t *testing.T) {
	svc := New(Config{Prefix: "POS", SuffixLen: 12})

	num := svc.Next()
	assert.True(t, strings.HasPrefix(num, "POS-"))
	assert.Len(t, num, len("POS-")+12)
}

func TestNext_ConfigDefaults(t *testing.T) {
	// Out-of-range config values fall back to defaults.
	svc := New(Config{SuffixLen: 100})

	num := svc.Next()
	assert.True(t, strings.HasPrefix(num, "S-"))
	assert.Len(t, num, len("S-")+DefaultSuffixLen)
}

func TestNext_FreshSuffixPerCall(t *testing.T) {
	svc := New(DefaultConfig())

	seen := make(map[string]struct{})
	for i := 0; i < 1000; i++ {
		seen[svc.Next()] = struct{}{}
	}
	// Random 8-hex suffixes over 1000 draws; a collision here would mean
	// the generator is not drawing fresh randomness per call.
	assert.Equal(t, 1000, len(seen))
}
