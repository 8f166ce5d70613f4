package nepdate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToBS(t *testing.T) {
	// Nepali new year 2080 fell on 2023-04-14
	got, err := ToBS("2023-04-14")
	assert.NoError(t, err)
	assert.Equal(t, "2080-01-01", got)
}

func TestToBSBadInput(t *testing.T) {
	_, err := ToBS("14/04/2023")
	assert.Error(t, err)
	_, err = ToBS("")
	assert.Error(t, err)
}
