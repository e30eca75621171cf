package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// toolConfig is the optional mcugen.toml discovered in the working
// directory or any parent. Its [defaults] may stand in for the -k, -u and
// -f flags; explicit flags always win, and -i/-o are never defaulted.
type toolConfig struct {
	Path     string
	Defaults defaultsConfig `toml:"defaults"`
}

type defaultsConfig struct {
	RME    string `toml:"rme"`
	RVM    string `toml:"rvm"`
	Format string `toml:"format"`
}

func findToolConfig(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "mcugen.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

func loadToolConfig(startDir string) (*toolConfig, bool, error) {
	path, ok, err := findToolConfig(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	var cfg toolConfig
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, true, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	cfg.Path = path
	return &cfg, true, nil
}
