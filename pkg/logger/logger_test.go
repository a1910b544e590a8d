package logger_test

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/notably/notably.go/pkg/logger"
)

func TestLog(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	log, err := logger.New().ToWriter(buff).Level(zerolog.InfoLevel).Make()
	require.NoError(t, err)
	require.Equal(t, 0, buff.Len())
	log.Info().Msg("Test")
	require.Contains(t, buff.String(), "Test")
}

func TestLevelFiltersOutput(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	log, err := logger.New().ToWriter(buff).LevelString("error").Make()
	require.NoError(t, err)
	log.Info().Msg("dropped")
	require.Equal(t, 0, buff.Len())
	log.Error().Msg("kept")
	require.Contains(t, buff.String(), "kept")
}

func TestLevelStringIgnoresUnknown(t *testing.T) {
	buff := bytes.NewBuffer([]byte{})
	log, err := logger.New().ToWriter(buff).LevelString("bogus").Make()
	require.NoError(t, err)
	log.Warn().Msg("still warns")
	require.Contains(t, buff.String(), "still warns")
}
