// Package validation holds the custom validator tags used by content records
package validation

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Rule patterns
var (
	// SettingKeyPattern matches snake_case setting keys, e.g. "site_title"
	SettingKeyPattern = `^[a-z][a-z0-9_]{0,99}$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	SettingKey *regexp.Regexp
}{
	SettingKey: regexp.MustCompile(SettingKeyPattern),
}

// Tags registered by Register
const (
	TagSettingKey = "settingkey"
	TagAssetURL   = "asseturl"
)

// Register adds the custom tags to v
func Register(v *validator.Validate) error {
	if err := v.RegisterValidation(TagSettingKey, settingKey); err != nil {
		return err
	}
	return v.RegisterValidation(TagAssetURL, assetURL)
}

func settingKey(fl validator.FieldLevel) bool {
	return CompiledPatterns.SettingKey.MatchString(fl.Field().String())
}

// assetURL accepts a site-relative path ("/uploads/x.png") or an absolute
// http(s) URL.
func assetURL(fl validator.FieldLevel) bool {
	return IsAssetURL(fl.Field().String())
}

// IsAssetURL reports whether s is usable as an image or document link
func IsAssetURL(s string) bool {
	if strings.HasPrefix(s, "/") {
		return !strings.HasPrefix(s, "//")
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
