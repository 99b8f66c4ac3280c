// Package services holds the business logic between controllers and stores.
//
//   - ContentService: display projection and admin CRUD for one content type
//   - MigrationService: legacy imports triggered from the admin API
//   - AuthService: admin login and session validation
package services

import (
	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/dto"
	"github.com/yigit/councilcms/internal/app/repositories"
)

// ContentServices holds one ContentService per content type
type ContentServices struct {
	Team         ContentService[*models.TeamMember]
	Clubs        ContentService[*models.Club]
	Events       ContentService[*models.Event]
	Hackathons   ContentService[*models.Hackathon]
	Achievements ContentService[*models.Achievement]
	Magazines    ContentService[*models.Magazine]
	Settings     ContentService[*models.SiteSetting]
}

// NewContentServices wires every store to its display projection
func NewContentServices(repos *repositories.Repositories, lgr zerolog.Logger) *ContentServices {
	return &ContentServices{
		Team:         NewContentService(models.ContentTeam, repos.Team, dto.TeamDisplay(), func() *models.TeamMember { return &models.TeamMember{} }, lgr),
		Clubs:        NewContentService(models.ContentClubs, repos.Clubs, dto.ClubsDisplay(), func() *models.Club { return &models.Club{} }, lgr),
		Events:       NewContentService(models.ContentEvents, repos.Events, dto.EventsDisplay(), func() *models.Event { return &models.Event{} }, lgr),
		Hackathons:   NewContentService(models.ContentHackathons, repos.Hackathons, dto.HackathonsDisplay(), func() *models.Hackathon { return &models.Hackathon{} }, lgr),
		Achievements: NewContentService(models.ContentAchievements, repos.Achievements, dto.AchievementsDisplay(), func() *models.Achievement { return &models.Achievement{} }, lgr),
		Magazines:    NewContentService(models.ContentMagazines, repos.Magazines, dto.MagazinesDisplay(), func() *models.Magazine { return &models.Magazine{} }, lgr),
		Settings:     NewContentService(models.ContentSettings, repos.Settings, dto.SettingsDisplay(), func() *models.SiteSetting { return &models.SiteSetting{} }, lgr),
	}
}
