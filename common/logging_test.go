package common

import (
	"bytes"
	"os"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
)

func TestSetLogLevel(t *testing.T) {
	t.Cleanup(func() { _ = SetLogLevel("info") })

	assert.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, log.DebugLevel, getLogger().GetLevel())

	assert.Error(t, SetLogLevel("loud"))
	assert.Equal(t, log.DebugLevel, getLogger().GetLevel(), "a bad level leaves the logger unchanged")
}

func TestLogWarn(t *testing.T) {
	var buf bytes.Buffer
	getLogger().SetOutput(&buf)
	t.Cleanup(func() { getLogger().SetOutput(os.Stderr) })

	LogWarn("quality policy disables available maps", "dropped", "metallic")
	assert.Contains(t, buf.String(), "WARN")
	assert.Contains(t, buf.String(), "dropped=metallic")

	buf.Reset()
	LogDebug("hidden at info")
	assert.Empty(t, buf.String())
}
