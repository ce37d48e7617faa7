package config

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/gobwas/glob"
)

var (
	// ErrInvalidClassName indicates a class name that is not an identifier
	ErrInvalidClassName = errors.New("invalid class name")

	// ErrInvalidLogLevel indicates an unknown log level
	ErrInvalidLogLevel = errors.New("invalid log level")

	// ErrInvalidLogFormat indicates an unknown log format
	ErrInvalidLogFormat = errors.New("invalid log format")

	// ErrInvalidDiscover indicates invalid discovery settings
	ErrInvalidDiscover = errors.New("invalid discover settings")
)

var identifierRe = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if !identifierRe.MatchString(cfg.ClassName) {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidClassName, cfg.ClassName))
	}

	switch cfg.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (must be debug, info, warn or error)", ErrInvalidLogLevel, cfg.Log.Level))
	}

	switch cfg.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("%w: %q (must be text or json)", ErrInvalidLogFormat, cfg.Log.Format))
	}

	if cfg.Discover.MaxFileSize < 0 {
		errs = append(errs, fmt.Errorf("%w: max_file_size must be >= 0", ErrInvalidDiscover))
	}
	for _, p := range cfg.Discover.Exclude {
		if _, err := glob.Compile(p, '/'); err != nil {
			errs = append(errs, fmt.Errorf("%w: exclude pattern %q: %v", ErrInvalidDiscover, p, err))
		}
	}

	return errors.Join(errs...)
}

// IsValidClassName reports whether name can name a class.
func IsValidClassName(name string) bool {
	return identifierRe.MatchString(name)
}
