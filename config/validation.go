package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks cfg against its struct tags and returns the first failure
// in a readable form.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("nil config")
	}
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		e := validationErrs[0]
		return fmt.Errorf("%s: validation failed on '%s' tag (value: %s)",
			e.Namespace(), e.Tag(), formatValue(e.Field(), e.Value()))
	}
	return err
}

// formatValue renders byte sized fields in human units, i.e. "64 MiB"
func formatValue(field string, v any) string {
	if n, ok := v.(int64); ok && strings.HasSuffix(field, "Bytes") && n >= 0 {
		return humanize.IBytes(uint64(n))
	}
	return fmt.Sprint(v)
}

// HumanSize formats a byte count for logs and messages
func HumanSize(n int64) string {
	if n < 0 {
		return fmt.Sprintf("%d B", n)
	}
	return humanize.IBytes(uint64(n))
}
