package seed

import (
	"time"

	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/repositories"
)

// seededAt stamps the built-in records so that a fresh install serves stable timestamps
var seededAt = time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

func base(id string) models.Base {
	return models.Base{ID: id, CreatedAt: seededAt, UpdatedAt: seededAt}
}

// Defaults returns the built-in datasets. Every call builds fresh values.
func Defaults() repositories.Defaults {
	return repositories.Defaults{
		Settings: DefaultSettings,
		Clubs:    DefaultClubs,
	}
}

// DefaultSettings are the settings a fresh site starts with
func DefaultSettings() []*models.SiteSetting {
	return []*models.SiteSetting{
		{Base: base("site-title"), Key: "site_title", Value: "Technical Council", Description: "Shown in the page header", Public: true},
		{Base: base("contact-email"), Key: "contact_email", Value: "", Description: "Public contact address", Public: true},
		{Base: base("registrations-open"), Key: "registrations_open", Value: false, Description: "Enables event registration links", Public: true},
		{Base: base("magazine-archive-start"), Key: "magazine_archive_start", Value: float64(2015), Description: "First year listed in the magazine archive", Public: false},
	}
}

// DefaultClubs are the clubs listed before any admin edits
func DefaultClubs() []*models.Club {
	clubs := []struct{ id, name, category, description string }{
		{"programming-club", "Programming Club", "technical", "Competitive programming, development sprints and open source."},
		{"robotics-club", "Robotics Club", "technical", "Autonomous robots, embedded systems and competitions."},
		{"electronics-club", "Electronics Club", "technical", "Circuit design, PCB workshops and hardware projects."},
		{"aero-club", "Aero Club", "technical", "Drones, RC aircraft and aerodynamics."},
	}

	out := make([]*models.Club, 0, len(clubs))
	for _, c := range clubs {
		out = append(out, &models.Club{
			Base:         base(c.id),
			Name:         c.name,
			Description:  c.description,
			Category:     c.category,
			Gallery:      []models.GalleryItem{},
			Team:         []models.ClubMember{},
			Achievements: []string{},
		})
	}
	return out
}
