// Package config loads the simulator's merged configuration: a base YAML
// file overlaid by an optional local YAML file, with SERVER_HOST/
// SERVER_PORT environment variables taking final priority (spec §6
// "Configuration"). Grounded on the teacher's registry/cmd/registry/main.go
// envOr-style override helpers, adapted from flat env vars to a layered
// YAML config since the core here has many more tunables than a single
// gRPC server address.
package config

import (
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// LLM holds the language-model connection and call-mode settings (spec §6
// "llm.*").
type LLM struct {
	BaseURL       string            `yaml:"base_url"`
	Key           string            `yaml:"key"`
	ModelName     string            `yaml:"model_name"`
	FastModelName string            `yaml:"fast_model_name"`
	Mode          string            `yaml:"mode"` // normal, fast, default
	DefaultModes  map[string]string `yaml:"default_modes"`
}

// AI holds the LLM dispatch concurrency/retry tunables (spec §6 "ai.*").
type AI struct {
	MaxConcurrentRequests int `yaml:"max_concurrent_requests"`
	MaxParseRetries       int `yaml:"max_parse_retries"`
}

// GatheringProbabilities holds the per-gathering-type trigger probabilities
// referenced generically by spec §6 as "game.gathering.*_prob".
type GatheringProbabilities struct {
	SectTeachingProb float64 `yaml:"sect_teaching_prob"`
}

// Game holds world-population and narrative tunables (spec §6 "game.*").
type Game struct {
	SectNum      int                    `yaml:"sect_num"`
	InitNPCNum   int                    `yaml:"init_npc_num"`
	WorldHistory string                 `yaml:"world_history"`
	Gathering    GatheringProbabilities `yaml:"gathering"`
}

// System holds locale and server-bind settings (spec §6 "system.*").
type System struct {
	Language string `yaml:"language"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
}

// Paths holds the filesystem roots the core reads/writes (spec §6
// "paths.*").
type Paths struct {
	Saves       string `yaml:"saves"`
	Templates   string `yaml:"templates"`
	GameConfigs string `yaml:"game_configs"`
}

// Config is the fully merged configuration the simulator is wired from.
type Config struct {
	LLM    LLM    `yaml:"llm"`
	AI     AI     `yaml:"ai"`
	Game   Game   `yaml:"game"`
	System System `yaml:"system"`
	Paths  Paths  `yaml:"paths"`
}

// DefaultHost/DefaultPort are the fallback system.host/system.port when
// neither config file nor environment sets them (spec §6 "priority: env >
// config > default 127.0.0.1:8002").
const (
	DefaultHost = "127.0.0.1"
	DefaultPort = 8002
)

// Load reads basePath, then overlays localPath if it exists (a missing
// local file is not an error — it simply means no local overrides), then
// applies SERVER_HOST/SERVER_PORT environment overrides last.
func Load(basePath, localPath string) (Config, error) {
	var cfg Config

	if err := unmarshalFile(basePath, &cfg); err != nil {
		return Config{}, err
	}
	if localPath != "" {
		if _, err := os.Stat(localPath); err == nil {
			if err := unmarshalFile(localPath, &cfg); err != nil {
				return Config{}, err
			}
		}
	}

	applyEnvOverrides(&cfg)
	applyDefaults(&cfg)

	return cfg, nil
}

// unmarshalFile decodes path's YAML onto cfg, merging onto whatever is
// already set (yaml.Unmarshal only overwrites fields present in the
// document, so a local overlay only touches the keys it declares).
func unmarshalFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvOverrides implements spec §6 "Environment overrides: SERVER_HOST,
// SERVER_PORT (priority: env > config > default)".
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SERVER_HOST"); v != "" {
		cfg.System.Host = v
	}
	if v := os.Getenv("SERVER_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.System.Port = p
		}
	}
}

func applyDefaults(cfg *Config) {
	if cfg.System.Host == "" {
		cfg.System.Host = DefaultHost
	}
	if cfg.System.Port == 0 {
		cfg.System.Port = DefaultPort
	}
}
