package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	v := NewContactValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"Valid", "admin@example.com", "admin@example.com", nil},
		{"Uppercase Normalized", "Admin@Example.COM", "admin@example.com", nil},
		{"Surrounding Whitespace", "  admin@example.com ", "admin@example.com", nil},
		{"Plus Tag", "admin+hr@example.com", "admin+hr@example.com", nil},
		{"Empty", "", "", ErrEmptyValue},
		{"Missing At", "admin.example.com", "", ErrInvalidEmail},
		{"Missing TLD", "admin@example", "", ErrInvalidEmail},
		{"Spaces Inside", "ad min@example.com", "", ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidateEmail(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidatePhone(t *testing.T) {
	v := NewContactValidator()

	tests := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{"Plain Digits", "96891234567", "96891234567", nil},
		{"International Prefix", "+96891234567", "+96891234567", nil},
		{"With Separators", "+968 9123-4567", "+96891234567", nil},
		{"Parentheses", "(968) 9123 4567", "96891234567", nil},
		{"Empty", "", "", ErrEmptyValue},
		{"Too Short", "12345", "", ErrInvalidPhone},
		{"Too Long", "12345678901234567", "", ErrInvalidPhone},
		{"Letters", "9689abc4567", "", ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := v.ValidatePhone(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidHelpers(t *testing.T) {
	v := NewContactValidator()

	assert.True(t, v.IsValidEmail("ops@contracthub.io"))
	assert.False(t, v.IsValidEmail("not-an-email"))
	assert.True(t, v.IsValidPhone("+96891234567"))
	assert.False(t, v.IsValidPhone("abc"))
}
