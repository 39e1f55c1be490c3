package engine

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config describes how to spawn a threaded engine.
type Config struct {
	// Path is the engine executable.
	Path string `yaml:"path"`

	// WorkingDir is the engine's working directory. Empty means the
	// executable's parent directory.
	WorkingDir string `yaml:"working_dir,omitempty"`

	// Args are extra command-line arguments for the engine process.
	Args []string `yaml:"args,omitempty"`

	// PreHandshakeOptions are sent, in order, before the "usi" exchange.
	// Needed for engines that select their dialect via options.
	PreHandshakeOptions []PreOption `yaml:"pre_handshake_options,omitempty"`
}

// PreOption is one pre-handshake "setoption". A nil Value sends the
// valueless form.
type PreOption struct {
	Name  string  `yaml:"name"`
	Value *string `yaml:"value,omitempty"`
}

// LoadConfig reads a Config from a YAML file.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("engine: read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("engine: parse config %s: %w", path, err)
	}
	if cfg.Path == "" {
		return Config{}, fmt.Errorf("engine: config %s: path is required", path)
	}
	return cfg, nil
}
