package config

import (
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultStateDir         = "~/.local/state/ngrams"
	defaultInputEncoding    = "utf-8"
	defaultOutputEncoding   = "utf-8"
	defaultNewlines         = "universal"
	defaultBufferKiB        = 64
	defaultProgress         = ProgressDots
	defaultProgressInterval = 1000
	defaultSampleLimit      = 256
	defaultHistoryEnabled   = true
	defaultLogFormat        = "console"
	defaultLogLevel         = "warn"

	maxBufferKiB = 16 * 1024
)

// Progress styles accepted by scan.progress.
const (
	ProgressDots = "dots"
	ProgressBar  = "bar"
	ProgressNone = "none"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDirPath(),
		},
		Scan: Scan{
			InputEncoding:    defaultInputEncoding,
			Newlines:         defaultNewlines,
			BufferKiB:        defaultBufferKiB,
			Progress:         defaultProgress,
			ProgressInterval: defaultProgressInterval,
		},
		Export: Export{
			SampleLimit:    defaultSampleLimit,
			OutputEncoding: defaultOutputEncoding,
		},
		History: History{
			Enabled: defaultHistoryEnabled,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

func defaultStateDirPath() string {
	if base, ok := os.LookupEnv("XDG_STATE_HOME"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, "ngrams")
	}
	return defaultStateDir
}
