// Package legacy holds the record shapes written by the earlier storage
// generations (flat JSON files, blob documents and document collections).
// They are read only by the migration runner.
package legacy

import "time"

// Base mirrors the identifier and timestamps of legacy records. Older
// documents may lack the timestamps entirely.
type Base struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Base) GetID() string { return b.ID }
func (b *Base) SetID(id string) { b.ID = id }
func (b *Base) GetCreatedAt() time.Time { return b.CreatedAt }
func (b *Base) GetUpdatedAt() time.Time { return b.UpdatedAt }
func (b *Base) SetTimestamps(c, u time.Time) { b.CreatedAt, b.UpdatedAt = c, u }

// Socials groups profile links the way the team page stored them
type Socials struct {
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
}

// TeamMember as stored in team.json
type TeamMember struct {
	Base
	Name      string  `json:"name"`
	Position  string  `json:"position"`
	Team      string  `json:"team"`
	Email     string  `json:"email,omitempty"`
	PhotoPath string  `json:"photoPath,omitempty"`
	Socials   Socials `json:"socials"`
	Priority  int     `json:"priority"`
	Tenure    string  `json:"tenure,omitempty"`
}

func (m *TeamMember) SlugSource() string { return m.Name }

// ClubMember as stored inside a legacy club document
type ClubMember struct {
	Name        string `json:"name"`
	Designation string `json:"designation"`
	Image       string `json:"image,omitempty"`
}

// Links groups external club links
type Links struct {
	Website   string `json:"website,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Club as stored in clubs.json
type Club struct {
	Base
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Type         string       `json:"type"`
	PhotoPath    string       `json:"photoPath,omitempty"`
	Images       []string     `json:"images"`
	Members      []ClubMember `json:"members"`
	Achievements []string     `json:"achievements"`
	Links        Links        `json:"links"`
}

func (c *Club) SlugSource() string { return c.Name }

// Event as stored in events.json
type Event struct {
	Base
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Date             string   `json:"date"`
	EndDate          string   `json:"endDate,omitempty"`
	Venue            string   `json:"venue,omitempty"`
	Type             string   `json:"type"`
	Club             string   `json:"club,omitempty"`
	Images           []string `json:"images"`
	RegistrationLink string   `json:"registrationLink,omitempty"`
	IsDraft          bool     `json:"isDraft"`
}

func (e *Event) SlugSource() string { return e.Title }

// HackathonWinner as stored in legacy hackathon documents
type HackathonWinner struct {
	Team    string   `json:"team"`
	Rank    string   `json:"rank"`
	Members []string `json:"members"`
}

// Hackathon as stored in hackathons.json. Prizes map a position to a reward.
type Hackathon struct {
	Base
	Name             string            `json:"name"`
	Description      string            `json:"description"`
	StartDate        string            `json:"startDate"`
	EndDate          string            `json:"endDate,omitempty"`
	Status           string            `json:"status"`
	Prizes           map[string]string `json:"prizes"`
	Winners          []HackathonWinner `json:"winners"`
	Sponsors         []string          `json:"sponsors"`
	Images           []string          `json:"images"`
	RegistrationLink string            `json:"registrationLink,omitempty"`
}

func (h *Hackathon) SlugSource() string { return h.Name }

// Achievement as stored in achievements.json. Year was free text.
type Achievement struct {
	Base
	Title       string   `json:"title"`
	Year        string   `json:"year"`
	Meet        string   `json:"meet,omitempty"`
	Rank        string   `json:"rank,omitempty"`
	Type        string   `json:"type"`
	Description string   `json:"description,omitempty"`
	Members     []string `json:"members"`
	Images      []string `json:"images"`
}

func (a *Achievement) SlugSource() string { return a.Title }

// Magazine as stored in magazines.json
type Magazine struct {
	Base
	Title       string `json:"title"`
	Edition     string `json:"edition,omitempty"`
	Date        string `json:"date"`
	Description string `json:"description,omitempty"`
	CoverImage  string `json:"coverImage,omitempty"`
	PDFLink     string `json:"pdfLink,omitempty"`
}

func (m *Magazine) SlugSource() string { return m.Title }

// Setting as stored in settings.json
type Setting struct {
	Base
	Key         string `json:"key"`
	Value       any    `json:"value"`
	Description string `json:"description,omitempty"`
}

func (s *Setting) SlugSource() string { return s.Key }
