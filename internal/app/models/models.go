package models

import (
	"fmt"
	"time"
)

// ContentType identifies one kind of site content. The value doubles as the
// URL segment, the JSON document name and the table suffix.
type ContentType string

const (
	ContentTeam         ContentType = "team"
	ContentClubs        ContentType = "clubs"
	ContentEvents       ContentType = "events"
	ContentHackathons   ContentType = "hackathons"
	ContentAchievements ContentType = "achievements"
	ContentMagazines    ContentType = "magazines"
	ContentSettings     ContentType = "settings"
)

// AllContentTypes lists every content type in a stable order
var AllContentTypes = []ContentType{
	ContentTeam,
	ContentClubs,
	ContentEvents,
	ContentHackathons,
	ContentAchievements,
	ContentMagazines,
	ContentSettings,
}

var contentLabels = map[ContentType]string{
	ContentTeam:         "Team member",
	ContentClubs:        "Club",
	ContentEvents:       "Event",
	ContentHackathons:   "Hackathon",
	ContentAchievements: "Achievement",
	ContentMagazines:    "Magazine",
	ContentSettings:     "Setting",
}

// Label returns the singular human name, e.g. "Event"
func (c ContentType) Label() string {
	if l, ok := contentLabels[c]; ok {
		return l
	}
	return string(c)
}

func (c ContentType) String() string { return string(c) }

// ParseContentType validates a raw content type name
func ParseContentType(s string) (ContentType, error) {
	ct := ContentType(s)
	if _, ok := contentLabels[ct]; !ok {
		return "", fmt.Errorf("unknown content type %q", s)
	}
	return ct, nil
}

// Record is implemented by the pointer type of every content record.
type Record interface {
	GetID() string
	SetID(id string)
	GetCreatedAt() time.Time
	GetUpdatedAt() time.Time
	SetTimestamps(createdAt, updatedAt time.Time)
	// SlugSource is the human title the identifier is derived from.
	SlugSource() string
}

// Normalizer is implemented by records with list fields. Normalize replaces
// nil lists with empty ones so stored records always serialize them as [].
type Normalizer interface {
	Normalize()
}

// Normalize calls r.Normalize when r implements Normalizer.
func Normalize(r any) {
	if n, ok := r.(Normalizer); ok {
		n.Normalize()
	}
}

func orEmpty[T any](list []T) []T {
	if list == nil {
		return []T{}
	}
	return list
}

// Categorized records expose the field used for migration breakdowns.
type Categorized interface {
	CategoryOf() string
}

// Base carries the identifier and timestamps shared by all records.
type Base struct {
	ID        string    `json:"id" db:"id"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

func (b *Base) GetID() string { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }
func (b *Base) GetCreatedAt() time.Time { return b.CreatedAt }
func (b *Base) GetUpdatedAt() time.Time { return b.UpdatedAt }
func (b *Base) SetTimestamps(c, u time.Time) { b.CreatedAt, b.UpdatedAt = c, u }

// GalleryItem is one image in a gallery
type GalleryItem struct {
	URL     string `json:"url" binding:"required,asseturl"`
	Caption string `json:"caption,omitempty"`
}

// Document is a downloadable file attached to a record
type Document struct {
	Name string `json:"name" binding:"required"`
	URL  string `json:"url" binding:"required,asseturl"`
}

// CategoryOf returns the category of r, or "uncategorized".
func CategoryOf(r any) string {
	if c, ok := r.(Categorized); ok {
		if v := c.CategoryOf(); v != "" {
			return v
		}
	}
	return "uncategorized"
}
