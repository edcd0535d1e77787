package identity

import (
	"log/slog"
	"strings"

	"freeshare/internal/domain/shared/fault"
)

// Document keys travel straight into collection paths, so an id must be a
// non-empty string without path separators or parent references.

// ValidateID fails with a validation fault naming the field and the value
// it received. Commands check their id arguments with this before the
// transaction starts.
func ValidateID(value, field string) error {
	if strings.TrimSpace(value) == "" {
		return fault.Newf(fault.KindValidation, "%s must not be empty", field)
	}
	if strings.Contains(value, "/") || strings.Contains(value, "..") {
		return fault.Newf(fault.KindValidation, "%s is not a valid identifier: %q", field, value)
	}
	return nil
}

// Valid is the lenient form for best-effort paths: a bad id is logged and
// reported as false instead of failing the operation.
func Valid(value, field string, log *slog.Logger) bool {
	if err := ValidateID(value, field); err != nil {
		if log != nil {
			log.Warn("skipping invalid identifier", "field", field, "value", value)
		}
		return false
	}
	return true
}
