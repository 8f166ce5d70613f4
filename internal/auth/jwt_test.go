package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIssueAndParse(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "qwickattend", "secret", time.Minute, time.Hour)
	assert.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.True(t, pair.RefreshExp.After(pair.AccessExp))

	claims, err := Parse(pair.AccessToken, "secret", "qwickattend")
	assert.NoError(t, err)
	assert.Equal(t, "teacher-1", claims.Subject)
	assert.Equal(t, "teacher", claims.Role)
}

func TestParseRejectsWrongKey(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "qwickattend", "secret", time.Minute, time.Hour)
	assert.NoError(t, err)

	_, err = Parse(pair.AccessToken, "other-secret", "qwickattend")
	assert.Error(t, err)
}

func TestParseRejectsIssuerMismatch(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "someone-else", "secret", time.Minute, time.Hour)
	assert.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "qwickattend")
	assert.Error(t, err)
}

func TestParseRejectsExpired(t *testing.T) {
	pair, err := Issue("teacher-1", "teacher", "qwickattend", "secret", -time.Minute, time.Hour)
	assert.NoError(t, err)

	_, err = Parse(pair.AccessToken, "secret", "qwickattend")
	assert.Error(t, err)
}
