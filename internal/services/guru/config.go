// File: internal/services/guru/config.go
package guru

import "fmt"

type Config struct {
	// Name/subject bounds after trimming.
	MinNameLength    int
	MaxNameLength    int
	MaxDescription   int
	MaxTagLength     int
	AllowedModels    []string
	DefaultModel     string
	MaxGurusPerUser  int
}

func (c *Config) Validate() error {
	if c.MinNameLength < 1 {
		return fmt.Errorf("min_name_length must be at least 1")
	}
	if c.MaxNameLength <= c.MinNameLength {
		return fmt.Errorf("max_name_length must exceed min_name_length")
	}
	if len(c.AllowedModels) == 0 {
		return fmt.Errorf("at least one allowed model is required")
	}
	if !c.ModelAllowed(c.DefaultModel) {
		return fmt.Errorf("default_model %q is not in the allowed set", c.DefaultModel)
	}
	return nil
}

func (c *Config) ModelAllowed(model string) bool {
	for _, m := range c.AllowedModels {
		if m == model {
			return true
		}
	}
	return false
}

func DefaultConfig() *Config {
	return &Config{
		MinNameLength:  2,
		MaxNameLength:  100,
		MaxDescription: 500,
		MaxTagLength:   30,
		AllowedModels: []string{
			"llama3-8b-8192",
			"llama3-70b-8192",
			"mixtral-8x7b-32768",
			"gemma-7b-it",
		},
		DefaultModel:    "llama3-8b-8192",
		MaxGurusPerUser: 50,
	}
}
