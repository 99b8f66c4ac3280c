package validation

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsAssetURL(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"/uploads/logo.png", true},
		{"https://cdn.example.org/a.jpg", true},
		{"http://example.org/mag.pdf", true},
		{"//evil.example.org/x.png", false},
		{"javascript:alert(1)", false},
		{"uploads/logo.png", false},
		{"https://", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAssetURL(tt.in))
		})
	}
}

func TestRegisteredTags(t *testing.T) {
	v := validator.New()
	require.NoError(t, Register(v))

	type setting struct {
		Key  string `validate:"settingkey"`
		Logo string `validate:"omitempty,asseturl"`
	}

	assert.NoError(t, v.Struct(setting{Key: "site_title", Logo: "/logo.png"}))
	assert.NoError(t, v.Struct(setting{Key: "contact_email"}))
	assert.Error(t, v.Struct(setting{Key: "Site Title"}))
	assert.Error(t, v.Struct(setting{Key: "site_title", Logo: "ftp://x/y"}))
}
