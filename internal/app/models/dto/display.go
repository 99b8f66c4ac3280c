package dto

import (
	"sort"

	"github.com/yigit/councilcms/internal/app/models"
)

// Placeholder images served when a record has no picture of its own
const (
	PlaceholderImage  = "/images/placeholder.png"
	PlaceholderAvatar = "/images/avatar-placeholder.png"
)

// Display narrows records of one content type to their public form.
// List returns the value served on GET /api/<type>; One returns false when
// the record must not be shown publicly.
type Display[R models.Record] struct {
	List func(records map[string]R) any
	One  func(record R) (any, bool)
}

func newDisplay[R models.Record, V any](project func(R) (V, bool), list func(map[string]R) []V) Display[R] {
	return Display[R]{
		List: func(records map[string]R) any { return list(records) },
		One: func(record R) (any, bool) {
			return project(record)
		},
	}
}

// projectAll applies project to every record and sorts the kept views
func projectAll[R models.Record, V any](records map[string]R, project func(R) (V, bool), less func(a, b V) bool) []V {
	out := make([]V, 0, len(records))
	for _, r := range records {
		if v, ok := project(r); ok {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func thumbnail(gallery []models.GalleryItem, fallback ...string) string {
	if len(gallery) > 0 && gallery[0].URL != "" {
		return gallery[0].URL
	}
	for _, f := range fallback {
		if f != "" {
			return f
		}
	}
	return PlaceholderImage
}

func galleryOf(g []models.GalleryItem) []models.GalleryItem {
	if g == nil {
		return []models.GalleryItem{}
	}
	return g
}

func stringsOf(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// --- Team ---

// TeamMemberView is the public form of a team member. Email stays internal.
type TeamMemberView struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Category string `json:"category"`
	PhotoURL string `json:"photoUrl"`
	LinkedIn string `json:"linkedin,omitempty"`
	GitHub   string `json:"github,omitempty"`
	Order    int    `json:"order"`
	Tenure   string `json:"tenure,omitempty"`
}

func ProjectTeamMember(m *models.TeamMember) (TeamMemberView, bool) {
	photo := m.PhotoURL
	if photo == "" {
		photo = PlaceholderAvatar
	}
	return TeamMemberView{
		ID:       m.ID,
		Name:     m.Name,
		Role:     m.Role,
		Category: m.Category,
		PhotoURL: photo,
		LinkedIn: m.LinkedIn,
		GitHub:   m.GitHub,
		Order:    m.Order,
		Tenure:   m.Tenure,
	}, true
}

// ProjectTeam orders members by order, then name
func ProjectTeam(records map[string]*models.TeamMember) []TeamMemberView {
	return projectAll(records, ProjectTeamMember, func(a, b TeamMemberView) bool {
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// --- Clubs ---

// ClubMemberView is one roster entry with a guaranteed photo
type ClubMemberView struct {
	Name     string `json:"name"`
	Role     string `json:"role"`
	PhotoURL string `json:"photoUrl"`
}

// ClubView is the public form of a club. Notes stay internal.
type ClubView struct {
	ID           string               `json:"id"`
	Name         string               `json:"name"`
	Description  string               `json:"description"`
	Category     string               `json:"category"`
	LogoURL      string               `json:"logoUrl,omitempty"`
	Thumbnail    string               `json:"thumbnail"`
	Gallery      []models.GalleryItem `json:"gallery"`
	Team         []ClubMemberView     `json:"team"`
	Achievements []string             `json:"achievements"`
	Website      string               `json:"website,omitempty"`
	Instagram    string               `json:"instagram,omitempty"`
}

func ProjectClub(c *models.Club) (ClubView, bool) {
	team := make([]ClubMemberView, 0, len(c.Team))
	for _, m := range c.Team {
		photo := m.PhotoURL
		if photo == "" {
			photo = PlaceholderAvatar
		}
		team = append(team, ClubMemberView{Name: m.Name, Role: m.Role, PhotoURL: photo})
	}
	return ClubView{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		Category:     c.Category,
		LogoURL:      c.LogoURL,
		Thumbnail:    thumbnail(c.Gallery, c.LogoURL),
		Gallery:      galleryOf(c.Gallery),
		Team:         team,
		Achievements: stringsOf(c.Achievements),
		Website:      c.Website,
		Instagram:    c.Instagram,
	}, true
}

// ProjectClubs orders clubs by name
func ProjectClubs(records map[string]*models.Club) []ClubView {
	return projectAll(records, ProjectClub, func(a, b ClubView) bool {
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
}

// --- Events ---

// EventView is the public form of a published event
type EventView struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	Date            string               `json:"date"`
	EndDate         string               `json:"endDate,omitempty"`
	Venue           string               `json:"venue,omitempty"`
	Category        string               `json:"category"`
	Organizer       string               `json:"organizer,omitempty"`
	Thumbnail       string               `json:"thumbnail"`
	Gallery         []models.GalleryItem `json:"gallery"`
	RegistrationURL string               `json:"registrationUrl,omitempty"`
}

// ProjectEvent hides drafts
func ProjectEvent(e *models.Event) (EventView, bool) {
	if e.Draft {
		return EventView{}, false
	}
	return EventView{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date,
		EndDate:         e.EndDate,
		Venue:           e.Venue,
		Category:        e.Category,
		Organizer:       e.Organizer,
		Thumbnail:       thumbnail(e.Gallery),
		Gallery:         galleryOf(e.Gallery),
		RegistrationURL: e.RegistrationURL,
	}, true
}

// ProjectEvents lists published events, newest first
func ProjectEvents(records map[string]*models.Event) []EventView {
	return projectAll(records, ProjectEvent, func(a, b EventView) bool {
		if a.Date != b.Date {
			return a.Date > b.Date
		}
		return a.ID < b.ID
	})
}

// --- Hackathons ---

// HackathonView is the public form of a hackathon
type HackathonView struct {
	ID              string               `json:"id"`
	Title           string               `json:"title"`
	Description     string               `json:"description"`
	StartDate       string               `json:"startDate"`
	EndDate         string               `json:"endDate,omitempty"`
	Status          string               `json:"status"`
	Prizes          []models.Prize       `json:"prizes"`
	Winners         []models.Winner      `json:"winners"`
	Sponsors        []string             `json:"sponsors"`
	Thumbnail       string               `json:"thumbnail"`
	Gallery         []models.GalleryItem `json:"gallery"`
	RegistrationURL string               `json:"registrationUrl,omitempty"`
}

func ProjectHackathon(h *models.Hackathon) (HackathonView, bool) {
	status := h.Status
	if status == "" {
		status = models.HackathonUpcoming
	}
	prizes := h.Prizes
	if prizes == nil {
		prizes = []models.Prize{}
	}
	winners := h.Winners
	if winners == nil {
		winners = []models.Winner{}
	}
	// registration closes once the hackathon is over
	reg := h.RegistrationURL
	if status == models.HackathonCompleted {
		reg = ""
	}
	return HackathonView{
		ID:              h.ID,
		Title:           h.Title,
		Description:     h.Description,
		StartDate:       h.StartDate,
		EndDate:         h.EndDate,
		Status:          status,
		Prizes:          prizes,
		Winners:         winners,
		Sponsors:        stringsOf(h.Sponsors),
		Thumbnail:       thumbnail(h.Gallery),
		Gallery:         galleryOf(h.Gallery),
		RegistrationURL: reg,
	}, true
}

// ProjectHackathons lists hackathons, latest start date first
func ProjectHackathons(records map[string]*models.Hackathon) []HackathonView {
	return projectAll(records, ProjectHackathon, func(a, b HackathonView) bool {
		if a.StartDate != b.StartDate {
			return a.StartDate > b.StartDate
		}
		return a.ID < b.ID
	})
}

// --- Achievements ---

// AchievementView is the public form of an Inter-IIT achievement
type AchievementView struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Year        int                  `json:"year"`
	Meet        string               `json:"meet,omitempty"`
	Position    string               `json:"position,omitempty"`
	Category    string               `json:"category"`
	Description string               `json:"description,omitempty"`
	Team        []string             `json:"team"`
	Thumbnail   string               `json:"thumbnail"`
	Gallery     []models.GalleryItem `json:"gallery"`
}

func ProjectAchievement(a *models.Achievement) (AchievementView, bool) {
	return AchievementView{
		ID:          a.ID,
		Title:       a.Title,
		Year:        a.Year,
		Meet:        a.Meet,
		Position:    a.Position,
		Category:    a.Category,
		Description: a.Description,
		Team:        stringsOf(a.Team),
		Thumbnail:   thumbnail(a.Gallery),
		Gallery:     galleryOf(a.Gallery),
	}, true
}

// ProjectAchievements orders by year descending, then title
func ProjectAchievements(records map[string]*models.Achievement) []AchievementView {
	return projectAll(records, ProjectAchievement, func(a, b AchievementView) bool {
		if a.Year != b.Year {
			return a.Year > b.Year
		}
		if a.Title != b.Title {
			return a.Title < b.Title
		}
		return a.ID < b.ID
	})
}

// --- Magazines ---

// MagazineView is the public form of a magazine issue
type MagazineView struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Issue       string            `json:"issue,omitempty"`
	PublishedAt string            `json:"publishedAt"`
	Description string            `json:"description,omitempty"`
	Thumbnail   string            `json:"thumbnail"`
	Documents   []models.Document `json:"documents"`
}

func ProjectMagazine(m *models.Magazine) (MagazineView, bool) {
	cover := m.CoverURL
	if cover == "" {
		cover = PlaceholderImage
	}
	docs := m.Documents
	if docs == nil {
		docs = []models.Document{}
	}
	return MagazineView{
		ID:          m.ID,
		Title:       m.Title,
		Issue:       m.Issue,
		PublishedAt: m.PublishedAt,
		Description: m.Description,
		Thumbnail:   cover,
		Documents:   docs,
	}, true
}

// ProjectMagazines lists issues, newest first
func ProjectMagazines(records map[string]*models.Magazine) []MagazineView {
	return projectAll(records, ProjectMagazine, func(a, b MagazineView) bool {
		if a.PublishedAt != b.PublishedAt {
			return a.PublishedAt > b.PublishedAt
		}
		return a.ID < b.ID
	})
}

// --- Settings ---

// SettingView is a single public setting
type SettingView struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

func ProjectSetting(s *models.SiteSetting) (SettingView, bool) {
	if !s.Public {
		return SettingView{}, false
	}
	return SettingView{Key: s.Key, Value: s.Value}, true
}

// ProjectSettings returns the public settings as key -> value
func ProjectSettings(records map[string]*models.SiteSetting) map[string]any {
	out := make(map[string]any, len(records))
	for _, s := range records {
		if v, ok := ProjectSetting(s); ok {
			out[v.Key] = v.Value
		}
	}
	return out
}

// --- Displays ---

func TeamDisplay() Display[*models.TeamMember] {
	return newDisplay(ProjectTeamMember, ProjectTeam)
}

func ClubsDisplay() Display[*models.Club] {
	return newDisplay(ProjectClub, ProjectClubs)
}

func EventsDisplay() Display[*models.Event] {
	return newDisplay(ProjectEvent, ProjectEvents)
}

func HackathonsDisplay() Display[*models.Hackathon] {
	return newDisplay(ProjectHackathon, ProjectHackathons)
}

func AchievementsDisplay() Display[*models.Achievement] {
	return newDisplay(ProjectAchievement, ProjectAchievements)
}

func MagazinesDisplay() Display[*models.Magazine] {
	return newDisplay(ProjectMagazine, ProjectMagazines)
}

// SettingsDisplay serves an object rather than a list
func SettingsDisplay() Display[*models.SiteSetting] {
	return Display[*models.SiteSetting]{
		List: func(records map[string]*models.SiteSetting) any { return ProjectSettings(records) },
		One: func(s *models.SiteSetting) (any, bool) {
			return ProjectSetting(s)
		},
	}
}
