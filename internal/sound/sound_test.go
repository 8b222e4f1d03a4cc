//go:build !ci

package sound

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynthesize(t *testing.T) {
	t.Parallel()

	buf, err := synthesize(sampleRate, []float64{440, 880}, 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, 2*sampleRate.N(50*time.Millisecond), buf.Len())
}

func TestSynthesize_InvalidFrequency(t *testing.T) {
	t.Parallel()

	// 超过奈奎斯特频率
	_, err := synthesize(sampleRate, []float64{float64(sampleRate)}, 50*time.Millisecond)
	assert.Error(t, err)
}

func TestSoundManager_PlayBeforeInit(t *testing.T) {
	t.Parallel()

	sm := NewSoundManager("")
	assert.NotPanics(t, func() { sm.Play(Answers) })
	sm.Close()
}

func TestChimesCoverNames(t *testing.T) {
	t.Parallel()

	for _, name := range []string{Reconnect, Answers} {
		assert.NotEmpty(t, chimes[name], name)
	}
}
