package migrations

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/legacy"
	"github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

var errMissingField = errors.New("missing required field")

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s", errMissingField, field)
	}
	return nil
}

func base(id string, b legacy.Base) models.Base {
	if id == "" {
		id = b.ID
	}
	return models.Base{ID: id, CreatedAt: b.CreatedAt, UpdatedAt: b.UpdatedAt}
}

// assetURL turns a legacy storage path into a URL the site can serve
func assetURL(path string) string {
	path = strings.TrimSpace(path)
	switch {
	case path == "":
		return ""
	case strings.HasPrefix(path, "http://"), strings.HasPrefix(path, "https://"), strings.HasPrefix(path, "/"):
		return path
	}
	return "/" + path
}

func gallery(images []string) []models.GalleryItem {
	out := make([]models.GalleryItem, 0, len(images))
	for _, img := range images {
		if u := assetURL(img); u != "" {
			out = append(out, models.GalleryItem{URL: u})
		}
	}
	return out
}

func strs(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

// MapTeamMember converts a legacy team entry
func MapTeamMember(id string, l *legacy.TeamMember) (*models.TeamMember, error) {
	if err := required("name", l.Name); err != nil {
		return nil, err
	}
	return &models.TeamMember{
		Base:     base(id, l.Base),
		Name:     l.Name,
		Role:     l.Position,
		Category: l.Team,
		Email:    l.Email,
		PhotoURL: assetURL(l.PhotoPath),
		LinkedIn: l.Socials.LinkedIn,
		GitHub:   l.Socials.GitHub,
		Order:    l.Priority,
		Tenure:   l.Tenure,
	}, nil
}

// MapClub converts a legacy club
func MapClub(id string, l *legacy.Club) (*models.Club, error) {
	if err := required("name", l.Name); err != nil {
		return nil, err
	}
	team := make([]models.ClubMember, 0, len(l.Members))
	for _, m := range l.Members {
		team = append(team, models.ClubMember{Name: m.Name, Role: m.Designation, PhotoURL: assetURL(m.Image)})
	}
	return &models.Club{
		Base:         base(id, l.Base),
		Name:         l.Name,
		Description:  l.Description,
		Category:     l.Type,
		LogoURL:      assetURL(l.PhotoPath),
		Gallery:      gallery(l.Images),
		Team:         team,
		Achievements: strs(l.Achievements),
		Website:      l.Links.Website,
		Instagram:    l.Links.Instagram,
	}, nil
}

// MapEvent converts a legacy event. The draft flag carries over unchanged.
func MapEvent(id string, l *legacy.Event) (*models.Event, error) {
	if err := required("title", l.Title); err != nil {
		return nil, err
	}
	if err := required("date", l.Date); err != nil {
		return nil, err
	}
	return &models.Event{
		Base:            base(id, l.Base),
		Title:           l.Title,
		Description:     l.Description,
		Date:            l.Date,
		EndDate:         l.EndDate,
		Venue:           l.Venue,
		Category:        l.Type,
		Organizer:       l.Club,
		Gallery:         gallery(l.Images),
		RegistrationURL: l.RegistrationLink,
		Draft:           l.IsDraft,
	}, nil
}

// MapHackathon converts a legacy hackathon. Prize tiers come out ordered by
// position so that "1st" precedes "2nd".
func MapHackathon(id string, l *legacy.Hackathon) (*models.Hackathon, error) {
	if err := required("name", l.Name); err != nil {
		return nil, err
	}

	positions := make([]string, 0, len(l.Prizes))
	for p := range l.Prizes {
		positions = append(positions, p)
	}
	sort.Slice(positions, func(i, j int) bool {
		ri, rj := rank(positions[i]), rank(positions[j])
		if ri != rj {
			return ri < rj
		}
		return positions[i] < positions[j]
	})
	prizes := make([]models.Prize, 0, len(positions))
	for _, p := range positions {
		prizes = append(prizes, models.Prize{Position: p, Reward: l.Prizes[p]})
	}

	winners := make([]models.Winner, 0, len(l.Winners))
	for _, w := range l.Winners {
		winners = append(winners, models.Winner{TeamName: w.Team, Position: w.Rank, Members: strs(w.Members)})
	}

	status := strings.ToLower(strings.TrimSpace(l.Status))
	switch status {
	case models.HackathonUpcoming, models.HackathonOngoing, models.HackathonCompleted:
	case "":
		status = models.HackathonUpcoming
	default:
		return nil, fmt.Errorf("unknown hackathon status %q", l.Status)
	}

	return &models.Hackathon{
		Base:            base(id, l.Base),
		Title:           l.Name,
		Description:     l.Description,
		StartDate:       l.StartDate,
		EndDate:         l.EndDate,
		Status:          status,
		Prizes:          prizes,
		Winners:         winners,
		Sponsors:        strs(l.Sponsors),
		Gallery:         gallery(l.Images),
		RegistrationURL: l.RegistrationLink,
	}, nil
}

// rank extracts the leading number of a position label like "2nd"; labels
// without one sort last.
func rank(label string) int {
	end := 0
	for end < len(label) && label[end] >= '0' && label[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(label[:end])
	if err != nil {
		return int(^uint(0) >> 1)
	}
	return n
}

// MapAchievement converts a legacy achievement. The free-text year must hold a
// four digit year, e.g. "2023" or "2023-24".
func MapAchievement(id string, l *legacy.Achievement) (*models.Achievement, error) {
	if err := required("title", l.Title); err != nil {
		return nil, err
	}
	y := strings.TrimSpace(l.Year)
	if len(y) < 4 {
		return nil, fmt.Errorf("malformed year %q", l.Year)
	}
	year, err := strconv.Atoi(y[:4])
	if err != nil {
		return nil, fmt.Errorf("malformed year %q: %w", l.Year, err)
	}
	return &models.Achievement{
		Base:        base(id, l.Base),
		Title:       l.Title,
		Year:        year,
		Meet:        l.Meet,
		Position:    l.Rank,
		Category:    l.Type,
		Description: l.Description,
		Team:        strs(l.Members),
		Gallery:     gallery(l.Images),
	}, nil
}

// MapMagazine converts a legacy magazine issue
func MapMagazine(id string, l *legacy.Magazine) (*models.Magazine, error) {
	if err := required("title", l.Title); err != nil {
		return nil, err
	}
	docs := []models.Document{}
	if u := assetURL(l.PDFLink); u != "" {
		docs = append(docs, models.Document{Name: "Full issue", URL: u})
	}
	return &models.Magazine{
		Base:        base(id, l.Base),
		Title:       l.Title,
		Issue:       l.Edition,
		PublishedAt: l.Date,
		Description: l.Description,
		CoverURL:    assetURL(l.CoverImage),
		Documents:   docs,
	}, nil
}

// MapSetting converts a legacy setting. Every legacy setting was public.
func MapSetting(id string, l *legacy.Setting) (*models.SiteSetting, error) {
	if err := required("key", l.Key); err != nil {
		return nil, err
	}
	return &models.SiteSetting{
		Base:        base(id, l.Base),
		Key:         l.Key,
		Value:       l.Value,
		Description: l.Description,
		Public:      true,
	}, nil
}

// NewRunners builds one runner per content type from src into repos
func NewRunners(src *repositories.LegacySources, repos *repositories.Repositories, lgr zerolog.Logger, m *metrics.Metrics) map[models.ContentType]Migration {
	lgr = lgr.With().Str("component", "migration").Logger()
	return map[models.ContentType]Migration{
		models.ContentTeam: &Runner[*legacy.TeamMember, *models.TeamMember]{
			Type: models.ContentTeam, Source: src.Team, Target: repos.Team, Map: MapTeamMember, Logger: lgr, Metrics: m,
		},
		models.ContentClubs: &Runner[*legacy.Club, *models.Club]{
			Type: models.ContentClubs, Source: src.Clubs, Target: repos.Clubs, Map: MapClub, Logger: lgr, Metrics: m,
		},
		models.ContentEvents: &Runner[*legacy.Event, *models.Event]{
			Type: models.ContentEvents, Source: src.Events, Target: repos.Events, Map: MapEvent, Logger: lgr, Metrics: m,
		},
		models.ContentHackathons: &Runner[*legacy.Hackathon, *models.Hackathon]{
			Type: models.ContentHackathons, Source: src.Hackathons, Target: repos.Hackathons, Map: MapHackathon, Logger: lgr, Metrics: m,
		},
		models.ContentAchievements: &Runner[*legacy.Achievement, *models.Achievement]{
			Type: models.ContentAchievements, Source: src.Achievements, Target: repos.Achievements, Map: MapAchievement, Logger: lgr, Metrics: m,
		},
		models.ContentMagazines: &Runner[*legacy.Magazine, *models.Magazine]{
			Type: models.ContentMagazines, Source: src.Magazines, Target: repos.Magazines, Map: MapMagazine, Logger: lgr, Metrics: m,
		},
		models.ContentSettings: &Runner[*legacy.Setting, *models.SiteSetting]{
			Type: models.ContentSettings, Source: src.Settings, Target: repos.Settings, Map: MapSetting, Logger: lgr, Metrics: m,
		},
	}
}
