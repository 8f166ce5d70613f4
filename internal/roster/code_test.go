package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := NewCode()
		assert.NoError(t, err)
		assert.Len(t, code, CodeLength)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(codeAlphabet, r), "unexpected rune %q", r)
		}
		seen[code] = true
	}
	// 32^8 keyspace; 200 draws colliding would mean a broken generator
	assert.Equal(t, 200, len(seen))
}

func TestValidSection(t *testing.T) {
	for _, s := range Sections {
		assert.True(t, ValidSection(s))
	}
	assert.False(t, ValidSection("a"))
	assert.False(t, ValidSection("AB"))
	assert.False(t, ValidSection(""))
}
