package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, Debug, ParseLevel("debug"))
	assert.Equal(t, Warning, ParseLevel("WARNING"))
	assert.Equal(t, Error, ParseLevel("Error"))
	assert.Equal(t, Info, ParseLevel("nonsense"))
}

func TestLoggerFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Warning).WithOutput(&buf)

	l.Infof("should not appear")
	l.Warningf("should appear: %d", 1)

	out := buf.String()
	assert.NotContains(t, out, "should not appear")
	assert.Contains(t, out, "should appear: 1")
	assert.Contains(t, out, "[WARNING]")
}

func TestLoggerIncludesAllLevelsAboveThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New(Debug).WithOutput(&buf)

	l.Debugf("d")
	l.Infof("i")
	l.Warningf("w")
	l.Errorf("e")

	out := buf.String()
	for _, want := range []string{"[DEBUG]", "[INFO]", "[WARNING]", "[ERROR]"} {
		assert.Contains(t, out, want)
	}
}
