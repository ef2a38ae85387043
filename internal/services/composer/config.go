// File: internal/services/composer/config.go
package composer

import (
	"fmt"
	"time"
)

type Config struct {
	// PythonBin is the interpreter used to spawn the composer script.
	PythonBin string
	// ScriptPath points at composer_api.py.
	ScriptPath string
	// Timeout is a hard bound: on expiry the subprocess is killed and the
	// call fails. There is no retry.
	Timeout time.Duration
}

func (c *Config) Validate() error {
	if c.PythonBin == "" {
		return fmt.Errorf("python binary is required")
	}
	if c.ScriptPath == "" {
		return fmt.Errorf("composer script path is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

func DefaultConfig() *Config {
	return &Config{
		PythonBin:  "python3",
		ScriptPath: "composer/composer_api.py",
		Timeout:    30 * time.Second,
	}
}
