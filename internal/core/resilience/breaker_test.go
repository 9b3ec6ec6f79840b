package resilience

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBreaker_PassesThrough(t *testing.T) {
	b := NewBreaker("test-pass", Settings{})

	res, err := b.Execute(func() (interface{}, error) { return "ok", nil })
	require.NoError(t, err)
	assert.Equal(t, "ok", res)
	assert.Equal(t, "closed", b.State())
}

func TestBreaker_OpensAfterFailures(t *testing.T) {
	b := NewBreaker("test-open", Settings{MinRequests: 2, FailureRatio: 0.5, OpenTimeout: time.Minute})
	boom := errors.New("boom")

	for i := 0; i < 2; i++ {
		_, err := b.Execute(func() (interface{}, error) { return nil, boom })
		assert.ErrorIs(t, err, boom)
	}

	assert.Equal(t, "open", b.State())

	called := false
	_, err := b.Execute(func() (interface{}, error) {
		called = true
		return nil, nil
	})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.False(t, called)
}
