package config

import (
	"encoding/json"
	"fmt"
	"os"
)

type RedisConfig struct {
	Addr      string `json:"addr"`
	Password  string `json:"password"`
	DB        int    `json:"db"`
	KeyPrefix string `json:"key_prefix"`
}

// Enabled reports whether the archive should be wired at all. An empty addr
// keeps the process purely in-memory.
func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type WSConfig struct {
	HeartbeatIntervalSec  int `json:"heartbeat_interval_sec"`
	HeartbeatTimeoutSec   int `json:"heartbeat_timeout_sec"`
	PruneIntervalSec      int `json:"prune_interval_sec"`
	RegisterRateCount     int `json:"register_rate_count"`
	RegisterRateWindowSec int `json:"register_rate_window_sec"`
}

type ServerConfig struct {
	ListenAddr  string      `json:"listen_addr"`
	LogLevel    string      `json:"log_level"`
	CORSOrigins []string    `json:"cors_origins"`
	WS          WSConfig    `json:"ws"`
	Redis       RedisConfig `json:"redis"`
}

func Default() *ServerConfig {
	return &ServerConfig{
		ListenAddr:  ":3000",
		CORSOrigins: []string{"*"},
		WS: WSConfig{
			HeartbeatIntervalSec:  10,
			HeartbeatTimeoutSec:   30,
			PruneIntervalSec:      60,
			RegisterRateCount:     5,
			RegisterRateWindowSec: 10,
		},
	}
}

func Load(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// LoadServer reads the server config from path, starting from defaults. An
// empty path returns defaults untouched; LISTEN_ADDR overrides either way.
func LoadServer(path string) (*ServerConfig, error) {
	cfg := Default()
	if path != "" {
		if err := Load(path, cfg); err != nil {
			return nil, err
		}
	}
	if addr := os.Getenv("LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	return cfg, nil
}
