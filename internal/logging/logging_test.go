package logging_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jrsteele09/amazon-oauth-callback/internal/logging"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("unknown level falls back to info", func(t *testing.T) {
		logging.Setup(logging.Options{Level: "loud"})
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("debug flag lowers the level", func(t *testing.T) {
		logging.Setup(logging.Options{Level: "warn", Debug: true})
		require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("writes to the log file", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "callback.log")
		logging.Setup(logging.Options{Level: "info", File: file})

		log.Info().Str("flow", "sp").Msg("record written")

		data, err := os.ReadFile(file)
		require.NoError(t, err)
		require.Contains(t, string(data), `"flow":"sp"`)
		require.Contains(t, string(data), "record written")
	})
}
