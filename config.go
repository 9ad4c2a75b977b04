package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	ConfirmPhrase  string `json:"confirm_phrase,omitempty"`
	OfferBackupTag *bool  `json:"offer_backup_tag,omitempty"`
	PullMode       string `json:"pull_mode,omitempty"`
}

const (
	defaultConfirmPhrase = "I UNDERSTAND"
	pullModeFFOnly       = "ff-only"
	pullModeRebase       = "rebase"
)

// Policy is the immutable per-run view of configuration. It is resolved
// once when a guarded action starts and threaded through the pipeline;
// nothing reads the config file mid-run.
type Policy struct {
	ConfirmPhrase  string
	OfferBackupTag bool
	PullMode       string
}

func LoadConfig() (Config, error) {
	path, err := configPath()
	if err != nil {
		return Config{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, err
	}
	// The phrase is kept verbatim: it is compared byte-exactly at prompt
	// time, so a deliberately padded phrase stays configurable.
	cfg.PullMode = strings.TrimSpace(cfg.PullMode)
	return cfg, nil
}

func ConfigExists() (bool, error) {
	path, err := configPath()
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return false, err
}

func SaveConfig(cfg Config) error {
	path, err := configPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(path, data, 0o644)
}

// LoadPolicy resolves the effective policy. A missing config file or
// missing keys fall back to documented defaults, never to an error.
func LoadPolicy() Policy {
	cfg, err := LoadConfig()
	if err != nil {
		cfg = Config{}
	}
	return policyFromConfig(cfg)
}

func policyFromConfig(cfg Config) Policy {
	policy := Policy{
		ConfirmPhrase:  defaultConfirmPhrase,
		OfferBackupTag: false,
		PullMode:       pullModeFFOnly,
	}
	if cfg.ConfirmPhrase != "" {
		policy.ConfirmPhrase = cfg.ConfirmPhrase
	}
	if cfg.OfferBackupTag != nil {
		policy.OfferBackupTag = *cfg.OfferBackupTag
	}
	if cfg.PullMode == pullModeRebase {
		policy.PullMode = pullModeRebase
	}
	return policy
}

func configPath() (string, error) {
	home := os.Getenv("HOME")
	if strings.TrimSpace(home) == "" {
		return "", errors.New("HOME not set")
	}
	return filepath.Join(home, ".gsafe", "config.json"), nil
}
