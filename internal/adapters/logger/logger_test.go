package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/drift/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Info(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	log.Info("watching /project")

	assert.Equal(t, "watching /project\n", buf.String())
}

func TestLogger_Warn(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	log.Warn("skipped big.css: file exceeds size limit")

	assert.Equal(t, "! skipped big.css: file exceeds size limit\n", buf.String())
}

func TestLogger_Error_RendersChain(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	inner := zerr.New("disk unplugged")
	err := zerr.Wrap(inner, "failed to write cache snapshot")
	log.Error(err)

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, "Error: failed to write cache snapshot")
	assert.Contains(t, out, "Caused by:")
	assert.Contains(t, out, "→ disk unplugged")
}

func TestLogger_Error_Nil(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	log := logger.New()
	log.SetOutput(&buf)

	log.Error(nil)

	assert.Empty(t, buf.String())
}
