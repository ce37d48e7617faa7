// Package config loads extractclass settings from defaults, an optional
// YAML file and EXTRACTCLASS_* environment variables.
package config

// Config is the complete configuration.
type Config struct {
	// ClassName is the default name of the extracted class.
	ClassName string         `yaml:"class_name" mapstructure:"class_name"`
	Log       LogConfig      `yaml:"log" mapstructure:"log"`
	Discover  DiscoverConfig `yaml:"discover" mapstructure:"discover"`
}

// LogConfig controls diagnostic output on stderr.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // text or json
}

// DiscoverConfig narrows the files the classes command scans.
type DiscoverConfig struct {
	MaxFileSize int64    `yaml:"max_file_size" mapstructure:"max_file_size"`
	Exclude     []string `yaml:"exclude" mapstructure:"exclude"`
	SkipTests   bool     `yaml:"skip_tests" mapstructure:"skip_tests"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		ClassName: "ExtractedClass",
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Discover: DiscoverConfig{
			MaxFileSize: 1 << 20,
		},
	}
}
