package controllers

import (
	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/services"
)

// ContentControllers holds one ContentController per content type
type ContentControllers struct {
	Team         *ContentController[*models.TeamMember]
	Clubs        *ContentController[*models.Club]
	Events       *ContentController[*models.Event]
	Hackathons   *ContentController[*models.Hackathon]
	Achievements *ContentController[*models.Achievement]
	Magazines    *ContentController[*models.Magazine]
	Settings     *ContentController[*models.SiteSetting]
}

// NewContentControllers creates the controllers of every content type
func NewContentControllers(svc *services.ContentServices, lgr zerolog.Logger) *ContentControllers {
	return &ContentControllers{
		Team:         NewContentController(svc.Team, lgr),
		Clubs:        NewContentController(svc.Clubs, lgr),
		Events:       NewContentController(svc.Events, lgr),
		Hackathons:   NewContentController(svc.Hackathons, lgr),
		Achievements: NewContentController(svc.Achievements, lgr),
		Magazines:    NewContentController(svc.Magazines, lgr),
		Settings:     NewContentController(svc.Settings, lgr),
	}
}
