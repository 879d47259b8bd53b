package logx

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryAndLevel(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	Info("RUNTIME", "block ", 7, " executed")
	Warn("RUNTIME", "extrinsic failed")

	out := buf.String()
	assert.Contains(t, out, "[INFO][RUNTIME]")
	assert.Contains(t, out, "block 7 executed")
	assert.Contains(t, out, "[WARN][RUNTIME]")
}

func TestErrorf(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)

	err := Errorf("could not open %s", "db")
	assert.EqualError(t, err, "could not open db")
	assert.Contains(t, buf.String(), "[ERROR][ERROR]")
}

func TestGetEnvIntFallback(t *testing.T) {
	t.Setenv("LOGFILE_MAX_SIZE_MB", "abc")
	assert.Equal(t, 100, getEnvInt("LOGFILE_MAX_SIZE_MB", 100))

	t.Setenv("LOGFILE_MAX_SIZE_MB", "12")
	assert.Equal(t, 12, getEnvInt("LOGFILE_MAX_SIZE_MB", 100))
}
