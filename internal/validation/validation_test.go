package validation

import (
	"testing"

	"github.com/atlasware/souq/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressInputPhoneRule(t *testing.T) {
	val, err := New()
	require.NoError(t, err)

	tests := []struct {
		name  string
		phone string
		valid bool
	}{
		{name: "leading zero mobile", phone: "0612345678", valid: true},
		{name: "country code mobile", phone: "+212712345678", valid: true},
		{name: "landline-style 05", phone: "0522334455", valid: true},
		{name: "too short", phone: "061234567", valid: false},
		{name: "too long", phone: "06123456789", valid: false},
		{name: "bad carrier prefix", phone: "0812345678", valid: false},
		{name: "letters", phone: "06abcdefgh", valid: false},
		{name: "empty", phone: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := domain.AddressInput{
				FullName: "Amine Benali",
				Phone:    tt.phone,
				City:     "Casablanca",
				Street:   "12 Rue des Orangers",
			}

			err := val.Struct("address.create", input)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				fields := domain.GetValidationFields(err)
				assert.Contains(t, fields, "Phone")
			}
		})
	}
}

func TestStructReportsAllFields(t *testing.T) {
	val, err := New()
	require.NoError(t, err)

	err = val.Struct("address.create", domain.AddressInput{})
	require.Error(t, err)
	assert.True(t, domain.IsValidationError(err))

	fields := domain.GetValidationFields(err)
	assert.Len(t, fields, 4)
}
