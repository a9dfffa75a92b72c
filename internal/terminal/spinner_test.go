package terminal

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a bytes.Buffer written by the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestIsInteractive_NonFile(t *testing.T) {
	assert.False(t, IsInteractive(&bytes.Buffer{}))
}

func TestStartSpinner_DrawsAndClears(t *testing.T) {
	var out syncBuffer
	stop := StartSpinner(&out, "Seeding", []string{"|", "/"}, 5*time.Millisecond)

	assert.Eventually(t, func() bool {
		return strings.Contains(out.String(), "Seeding")
	}, time.Second, 5*time.Millisecond)

	stop()
	stop() // idempotent

	s := out.String()
	assert.True(t, strings.HasSuffix(s, "\r"), "line must be cleared on stop")
	assert.NotContains(t, s, "\x1b[?25l", "cursor is only hidden on a terminal")
}

func TestStartSpinner_StopBeforeFirstFrame(t *testing.T) {
	var out syncBuffer
	stop := StartSpinner(&out, "Seeding", nil, time.Hour)
	stop()
	assert.Equal(t, "\r\r", out.String())
}
