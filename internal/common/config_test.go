package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, 8, cfg.Engine.MinTextLength)
	assert.Equal(t, "tesseract", cfg.Recognizer.Tesseract)
	assert.Equal(t, "eng", cfg.Recognizer.Lang)
	assert.Equal(t, 60*time.Second, cfg.Recognizer.Timeout)
	assert.Equal(t, 4, cfg.Batch.Workers)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("BATCH_WORKERS", "9")
	t.Setenv("MIN_TEXT_LENGTH", "20")
	t.Setenv("RECOGNIZER_TIMEOUT", "90s")
	t.Setenv("TESSERACT_LANG", "deu")

	cfg := LoadConfig()
	assert.Equal(t, 9, cfg.Batch.Workers)
	assert.Equal(t, 20, cfg.Engine.MinTextLength)
	assert.Equal(t, 90*time.Second, cfg.Recognizer.Timeout)
	assert.Equal(t, "deu", cfg.Recognizer.Lang)
}

func TestValidateRejectsNonPositiveWorkers(t *testing.T) {
	cfg := LoadConfig()
	cfg.Batch.Workers = 0
	require.Error(t, cfg.Validate())
}

func TestAppErrorUnwrap(t *testing.T) {
	err := NewAppError("X", "wrapping", ErrUnreadableImage)
	assert.ErrorIs(t, err, ErrUnreadableImage)
	assert.Contains(t, err.Error(), "X: wrapping")
}
