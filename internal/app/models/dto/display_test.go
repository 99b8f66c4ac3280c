package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/councilcms/internal/app/models"
)

func TestProjectEventsHidesDraftsAndInternalFields(t *testing.T) {
	events := map[string]*models.Event{
		"old":   {Base: models.Base{ID: "old"}, Title: "Old", Date: "2023-01-10", Category: "talk", Notes: "call venue"},
		"new":   {Base: models.Base{ID: "new"}, Title: "New", Date: "2024-02-01", Category: "fest", Gallery: []models.GalleryItem{{URL: "/img/a.jpg"}, {URL: "/img/b.jpg"}}},
		"draft": {Base: models.Base{ID: "draft"}, Title: "Draft", Date: "2025-01-01", Category: "talk", Draft: true},
	}

	got := ProjectEvents(events)
	require.Len(t, got, 2)
	assert.Equal(t, "new", got[0].ID)
	assert.Equal(t, "/img/a.jpg", got[0].Thumbnail)
	assert.Equal(t, "old", got[1].ID)
	assert.Equal(t, PlaceholderImage, got[1].Thumbnail)
	assert.Equal(t, []models.GalleryItem{}, got[1].Gallery)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "call venue")
	assert.NotContains(t, string(raw), "draft")
}

func TestProjectEventSingleDraft(t *testing.T) {
	_, ok := EventsDisplay().One(&models.Event{Title: "Draft", Draft: true})
	assert.False(t, ok)
}

func TestProjectTeamOrderAndPrivacy(t *testing.T) {
	team := map[string]*models.TeamMember{
		"b": {Base: models.Base{ID: "b"}, Name: "Bala", Role: "Coordinator", Order: 2, Email: "bala@council.in"},
		"a": {Base: models.Base{ID: "a"}, Name: "Asha", Role: "Secretary", Order: 1, PhotoURL: "/team/asha.jpg"},
		"c": {Base: models.Base{ID: "c"}, Name: "Anu", Role: "Coordinator", Order: 2},
	}

	got := ProjectTeam(team)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a", "c", "b"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, "/team/asha.jpg", got[0].PhotoURL)
	assert.Equal(t, PlaceholderAvatar, got[2].PhotoURL)

	raw, err := json.Marshal(got)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "bala@council.in")
}

func TestProjectClubsThumbnailFallback(t *testing.T) {
	clubs := map[string]*models.Club{
		"aero":     {Base: models.Base{ID: "aero"}, Name: "Aero Club", LogoURL: "/logos/aero.png", Notes: "budget pending"},
		"robotics": {Base: models.Base{ID: "robotics"}, Name: "Robotics Club", Team: []models.ClubMember{{Name: "Ravi", Role: "Lead"}}},
	}
	got := ProjectClubs(clubs)
	require.Len(t, got, 2)
	assert.Equal(t, "/logos/aero.png", got[0].Thumbnail)
	assert.Equal(t, PlaceholderImage, got[1].Thumbnail)
	assert.Equal(t, PlaceholderAvatar, got[1].Team[0].PhotoURL)
	assert.Equal(t, []string{}, got[1].Achievements)
}

func TestProjectAchievementsNewestYearFirst(t *testing.T) {
	got := ProjectAchievements(map[string]*models.Achievement{
		"x": {Base: models.Base{ID: "x"}, Title: "Bronze", Year: 2022},
		"y": {Base: models.Base{ID: "y"}, Title: "Gold", Year: 2024},
		"z": {Base: models.Base{ID: "z"}, Title: "Silver", Year: 2024},
	})
	assert.Equal(t, "y", got[0].ID)
	assert.Equal(t, "z", got[1].ID)
	assert.Equal(t, "x", got[2].ID)
}

func TestProjectHackathonDefaults(t *testing.T) {
	v, ok := ProjectHackathon(&models.Hackathon{Title: "Hack Day", RegistrationURL: "https://forms.example/hack"})
	require.True(t, ok)
	assert.Equal(t, models.HackathonUpcoming, v.Status)
	assert.Equal(t, "https://forms.example/hack", v.RegistrationURL)
	assert.Equal(t, []models.Prize{}, v.Prizes)

	v, _ = ProjectHackathon(&models.Hackathon{Title: "Hack Day", Status: models.HackathonCompleted, RegistrationURL: "https://forms.example/hack"})
	assert.Empty(t, v.RegistrationURL)
}

func TestProjectSettingsOnlyPublic(t *testing.T) {
	got := ProjectSettings(map[string]*models.SiteSetting{
		"site-title": {Key: "site_title", Value: "Technical Council", Public: true},
		"smtp-host":  {Key: "smtp_host", Value: "mail.internal", Public: false},
	})
	assert.Equal(t, map[string]any{"site_title": "Technical Council"}, got)

	_, ok := SettingsDisplay().One(&models.SiteSetting{Key: "smtp_host"})
	assert.False(t, ok)
}

func TestProjectMagazinesCoverFallback(t *testing.T) {
	got := ProjectMagazines(map[string]*models.Magazine{
		"a": {Base: models.Base{ID: "a"}, Title: "A", PublishedAt: "2021-01-01"},
		"b": {Base: models.Base{ID: "b"}, Title: "B", PublishedAt: "2023-06-01", CoverURL: "/covers/b.jpg"},
	})
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "/covers/b.jpg", got[0].Thumbnail)
	assert.Equal(t, PlaceholderImage, got[1].Thumbnail)
	assert.Equal(t, []models.Document{}, got[1].Documents)
}
