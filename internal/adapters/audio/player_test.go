package audio

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlayCue_UnconfiguredCueIsSkipped(t *testing.T) {
	p := NewPlayer("", nil)
	assert.NoError(t, p.PlayCue(context.Background(), "buy-complete"))
}

func TestPlayCue_RunsConfiguredPlayer(t *testing.T) {
	p := NewPlayer("true", map[string]string{"buy-complete": "chaching1.wav"})
	assert.NoError(t, p.PlayCue(context.Background(), "buy-complete"))
}

func TestPlayCue_PlayerFailureIsReturned(t *testing.T) {
	p := NewPlayer("false", map[string]string{"buy-complete": "chaching1.wav"})
	assert.Error(t, p.PlayCue(context.Background(), "buy-complete"))
}
