package identity

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"freeshare/internal/domain/shared/fault"
)

func TestValidateID(t *testing.T) {
	assert.NoError(t, ValidateID("ad-1", "ad id"))

	for _, bad := range []string{"", "  ", "a/b", "../etc"} {
		err := ValidateID(bad, "ad id")
		assert.True(t, fault.IsValidation(err), "value %q", bad)
	}
}
