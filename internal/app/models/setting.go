package models

// SiteSetting is a key/value site configuration entry. Only public settings
// are served on the public API.
type SiteSetting struct {
	Base
	Key         string `json:"key" binding:"required,settingkey"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
	Public      bool   `json:"public"`
}

func (s *SiteSetting) SlugSource() string { return s.Key }

func (s *SiteSetting) CategoryOf() string {
	if s.Public {
		return "public"
	}
	return "private"
}
