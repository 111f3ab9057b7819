package main

import (
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	env "github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

type config struct {
	Env      string `env:"APP_ENV,default=dev"`
	LogLevel string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`

	Host string `env:"HOST,default=0.0.0.0"`
	Port int    `env:"PORT,default=5000" validate:"min=1,max=65535"`

	// Origin is "" for same-host only, "*" for anyone, otherwise a single
	// scheme://host[:port].
	Origin    string `env:"ALLOWED_ORIGIN"`
	StaticDir string `env:"STATIC_DIR,default=public"`

	// Every text message carries the whole buffer, so this is also the
	// largest document a room can share.
	MaxMessageSize int `env:"MAX_MESSAGE_SIZE,default=1048576" validate:"min=1"`
	SendBuffer     int `env:"SEND_BUFFER,default=256" validate:"min=1"`

	MetricsTick time.Duration `env:"METRICS_TICK,default=60s" validate:"gt=0"`
	StopTimeout time.Duration `env:"STOP_TIMEOUT,default=10s" validate:"gte=0"`
	KillTimeout time.Duration `env:"KILL_TIMEOUT,default=1s" validate:"gte=0"`
}

// loadConfig reads an optional .env, then the environment. Variables that
// are already set win over the file.
func loadConfig() (config, error) {
	_ = godotenv.Load()

	var cfg config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return config{}, fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	if err := cfg.validate(); err != nil {
		return config{}, err
	}
	return cfg, nil
}

func (c config) validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("%w: %v", errInvalidConfig, err)
	}
	if o := strings.TrimSpace(c.Origin); o != "" && o != "*" {
		if _, ok := normalizeOrigin(o); !ok {
			return fmt.Errorf("%w: ALLOWED_ORIGIN %q is not scheme://host[:port]", errInvalidConfig, c.Origin)
		}
	}
	return nil
}

func (c config) addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
