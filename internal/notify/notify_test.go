package notify

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTerminal_NoColor(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, true)

	n.Success("logged in")
	n.Info("code sent")
	n.Error("jwt expired")
	n.Error("")

	assert.Equal(t, "✓ logged in\n• code sent\n✗ jwt expired\n", buf.String())
}

func TestTerminal_Styled(t *testing.T) {
	var buf bytes.Buffer
	n := NewTerminal(&buf, false)

	n.Error("failed")
	assert.Contains(t, buf.String(), "failed")
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	r.Success("a")
	r.Error("b")
	r.Error("c")

	assert.Len(t, r.Entries(), 3)
	assert.Equal(t, []string{"b", "c"}, r.Messages(LevelError))
	assert.Equal(t, []string{"a"}, r.Messages(LevelSuccess))

	r.Reset()
	assert.Empty(t, r.Entries())
}
