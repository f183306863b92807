package internal

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Host                string        `env:"HOST,default=0.0.0.0"`
	Port                int           `env:"PORT,default=3001"`
	LogLevel            string        `env:"LOG_LEVEL,default=INFO"`
	BadgerFilepath      string        `env:"BADGER_FILEPATH,required=true"`
	BlugeFilepath       string        `env:"BLUGE_FILEPATH,required=true"`
	AuthSecret          string        `env:"AUTH_SECRET,required=true"`
	AuthTokenDuration   time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	BroadcastBufferSize int           `env:"BROADCAST_BUFFER_SIZE,default=256"`
	ReadBufferSize      int           `env:"READ_BUFFER_SIZE,default=4096"`
	MaxFramePayload     int           `env:"MAX_FRAME_PAYLOAD,default=16777216"`
	MonitoringInterval  time.Duration `env:"MONITORING_INTERVAL,default=15s"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,default=200ms"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	CharReplacement     string        `env:"CHARACTER_REPLACEMENT,default=*"`
	CensoredWords       string        `env:"CENSORED_WORDS"`
	MaxContentLength    int           `env:"MAX_CONTENT_LENGTH,default=2000"`
	LimitMessages       int           `env:"LIMIT_MESSAGES,default=50"`
	WriteTimeout        time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	DebugPort           int           `env:"DEBUG_PORT,default=8081"`
	SeedFixtures        bool          `env:"SEED_FIXTURES,default=true"`
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}

// Words splits a comma separated list, dropping blanks.
func Words(str string) []string {
	var words []string
	for _, w := range strings.Split(str, ",") {
		if w = strings.TrimSpace(w); w != "" {
			words = append(words, w)
		}
	}
	return words
}
