package app

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	MenuPath   string // .hcl and .yaml menu files
	EventsPath string // YAML event file, only needed by Run

	LogFormat       string
	LogLevel        string
	HealthcheckPort int

	Boards         int
	ParallelBoards bool
	DumpRepository bool
	GraphFormat    string

	RedisAddr   string
	RedisPrefix string
}

// NewConfig fills defaults and validates cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.MenuPath == "" {
		return nil, errors.New("MenuPath is a required configuration field and cannot be empty")
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "text"
	}
	if cfg.GraphFormat == "" {
		cfg.GraphFormat = "text"
	}
	if cfg.Boards == 0 {
		cfg.Boards = 1
	}

	var errs []string
	if _, err := parseLevel(cfg.LogLevel); err != nil {
		errs = append(errs, err.Error())
	}
	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		errs = append(errs, fmt.Sprintf("invalid log format %q: must be 'text' or 'json'", cfg.LogFormat))
	}
	if cfg.GraphFormat != "text" && cfg.GraphFormat != "dot" {
		errs = append(errs, fmt.Sprintf("invalid graph format %q: must be 'text' or 'dot'", cfg.GraphFormat))
	}
	if cfg.Boards < 1 {
		errs = append(errs, fmt.Sprintf("invalid board count %d: must be at least 1", cfg.Boards))
	}
	if cfg.HealthcheckPort < 0 || cfg.HealthcheckPort > 65535 {
		errs = append(errs, fmt.Sprintf("invalid healthcheck port %d", cfg.HealthcheckPort))
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration:\n- %s", strings.Join(errs, "\n- "))
	}
	return &cfg, nil
}
