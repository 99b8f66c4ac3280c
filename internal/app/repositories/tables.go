package repositories

import (
	"github.com/yigit/councilcms/internal/app/models"
)

// column maps one record field to a table column. Nested values are stored in
// JSONB columns and travel through the driver as encoded bytes.
type column[R any] struct {
	name  string
	value func(R) any
	dest  func(R) any
	json  bool
}

func scalar[R any](name string, value func(R) any, dest func(R) any) column[R] {
	return column[R]{name: name, value: value, dest: dest}
}

func jsonb[R any](name string, value func(R) any, dest func(R) any) column[R] {
	return column[R]{name: name, value: value, dest: dest, json: true}
}

// Table describes the relational layout of one content type
type Table[R models.Record] struct {
	Name    string
	New     func() R
	columns []column[R]
}

// Columns returns the payload column names in insert order
func (t Table[R]) Columns() []string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return names
}

// TeamTable is the layout of the team table
func TeamTable() Table[*models.TeamMember] {
	type R = *models.TeamMember
	return Table[R]{
		Name: "team_members",
		New:  func() R { return &models.TeamMember{} },
		columns: []column[R]{
			scalar("name", func(r R) any { return r.Name }, func(r R) any { return &r.Name }),
			scalar("role", func(r R) any { return r.Role }, func(r R) any { return &r.Role }),
			scalar("category", func(r R) any { return r.Category }, func(r R) any { return &r.Category }),
			scalar("email", func(r R) any { return r.Email }, func(r R) any { return &r.Email }),
			scalar("photo_url", func(r R) any { return r.PhotoURL }, func(r R) any { return &r.PhotoURL }),
			scalar("linkedin", func(r R) any { return r.LinkedIn }, func(r R) any { return &r.LinkedIn }),
			scalar("github", func(r R) any { return r.GitHub }, func(r R) any { return &r.GitHub }),
			scalar("sort_order", func(r R) any { return r.Order }, func(r R) any { return &r.Order }),
			scalar("tenure", func(r R) any { return r.Tenure }, func(r R) any { return &r.Tenure }),
		},
	}
}

// ClubsTable is the layout of the clubs table
func ClubsTable() Table[*models.Club] {
	type R = *models.Club
	return Table[R]{
		Name: "clubs",
		New:  func() R { return &models.Club{} },
		columns: []column[R]{
			scalar("name", func(r R) any { return r.Name }, func(r R) any { return &r.Name }),
			scalar("description", func(r R) any { return r.Description }, func(r R) any { return &r.Description }),
			scalar("category", func(r R) any { return r.Category }, func(r R) any { return &r.Category }),
			scalar("logo_url", func(r R) any { return r.LogoURL }, func(r R) any { return &r.LogoURL }),
			jsonb("gallery", func(r R) any { return r.Gallery }, func(r R) any { return &r.Gallery }),
			jsonb("team", func(r R) any { return r.Team }, func(r R) any { return &r.Team }),
			jsonb("achievements", func(r R) any { return r.Achievements }, func(r R) any { return &r.Achievements }),
			scalar("website", func(r R) any { return r.Website }, func(r R) any { return &r.Website }),
			scalar("instagram", func(r R) any { return r.Instagram }, func(r R) any { return &r.Instagram }),
			scalar("notes", func(r R) any { return r.Notes }, func(r R) any { return &r.Notes }),
		},
	}
}

// EventsTable is the layout of the events table
func EventsTable() Table[*models.Event] {
	type R = *models.Event
	return Table[R]{
		Name: "events",
		New:  func() R { return &models.Event{} },
		columns: []column[R]{
			scalar("title", func(r R) any { return r.Title }, func(r R) any { return &r.Title }),
			scalar("description", func(r R) any { return r.Description }, func(r R) any { return &r.Description }),
			scalar("date", func(r R) any { return r.Date }, func(r R) any { return &r.Date }),
			scalar("end_date", func(r R) any { return r.EndDate }, func(r R) any { return &r.EndDate }),
			scalar("venue", func(r R) any { return r.Venue }, func(r R) any { return &r.Venue }),
			scalar("category", func(r R) any { return r.Category }, func(r R) any { return &r.Category }),
			scalar("organizer", func(r R) any { return r.Organizer }, func(r R) any { return &r.Organizer }),
			jsonb("gallery", func(r R) any { return r.Gallery }, func(r R) any { return &r.Gallery }),
			scalar("registration_url", func(r R) any { return r.RegistrationURL }, func(r R) any { return &r.RegistrationURL }),
			scalar("draft", func(r R) any { return r.Draft }, func(r R) any { return &r.Draft }),
			scalar("notes", func(r R) any { return r.Notes }, func(r R) any { return &r.Notes }),
		},
	}
}

// HackathonsTable is the layout of the hackathons table
func HackathonsTable() Table[*models.Hackathon] {
	type R = *models.Hackathon
	return Table[R]{
		Name: "hackathons",
		New:  func() R { return &models.Hackathon{} },
		columns: []column[R]{
			scalar("title", func(r R) any { return r.Title }, func(r R) any { return &r.Title }),
			scalar("description", func(r R) any { return r.Description }, func(r R) any { return &r.Description }),
			scalar("start_date", func(r R) any { return r.StartDate }, func(r R) any { return &r.StartDate }),
			scalar("end_date", func(r R) any { return r.EndDate }, func(r R) any { return &r.EndDate }),
			scalar("status", func(r R) any { return r.Status }, func(r R) any { return &r.Status }),
			jsonb("prizes", func(r R) any { return r.Prizes }, func(r R) any { return &r.Prizes }),
			jsonb("winners", func(r R) any { return r.Winners }, func(r R) any { return &r.Winners }),
			jsonb("sponsors", func(r R) any { return r.Sponsors }, func(r R) any { return &r.Sponsors }),
			jsonb("gallery", func(r R) any { return r.Gallery }, func(r R) any { return &r.Gallery }),
			scalar("registration_url", func(r R) any { return r.RegistrationURL }, func(r R) any { return &r.RegistrationURL }),
		},
	}
}

// AchievementsTable is the layout of the achievements table
func AchievementsTable() Table[*models.Achievement] {
	type R = *models.Achievement
	return Table[R]{
		Name: "achievements",
		New:  func() R { return &models.Achievement{} },
		columns: []column[R]{
			scalar("title", func(r R) any { return r.Title }, func(r R) any { return &r.Title }),
			scalar("year", func(r R) any { return r.Year }, func(r R) any { return &r.Year }),
			scalar("meet", func(r R) any { return r.Meet }, func(r R) any { return &r.Meet }),
			scalar("position", func(r R) any { return r.Position }, func(r R) any { return &r.Position }),
			scalar("category", func(r R) any { return r.Category }, func(r R) any { return &r.Category }),
			scalar("description", func(r R) any { return r.Description }, func(r R) any { return &r.Description }),
			jsonb("team", func(r R) any { return r.Team }, func(r R) any { return &r.Team }),
			jsonb("gallery", func(r R) any { return r.Gallery }, func(r R) any { return &r.Gallery }),
		},
	}
}

// MagazinesTable is the layout of the magazines table
func MagazinesTable() Table[*models.Magazine] {
	type R = *models.Magazine
	return Table[R]{
		Name: "magazines",
		New:  func() R { return &models.Magazine{} },
		columns: []column[R]{
			scalar("title", func(r R) any { return r.Title }, func(r R) any { return &r.Title }),
			scalar("issue", func(r R) any { return r.Issue }, func(r R) any { return &r.Issue }),
			scalar("published_at", func(r R) any { return r.PublishedAt }, func(r R) any { return &r.PublishedAt }),
			scalar("description", func(r R) any { return r.Description }, func(r R) any { return &r.Description }),
			scalar("cover_url", func(r R) any { return r.CoverURL }, func(r R) any { return &r.CoverURL }),
			jsonb("documents", func(r R) any { return r.Documents }, func(r R) any { return &r.Documents }),
		},
	}
}

// SettingsTable is the layout of the site_settings table
func SettingsTable() Table[*models.SiteSetting] {
	type R = *models.SiteSetting
	return Table[R]{
		Name: "site_settings",
		New:  func() R { return &models.SiteSetting{} },
		columns: []column[R]{
			scalar("key", func(r R) any { return r.Key }, func(r R) any { return &r.Key }),
			jsonb("value", func(r R) any { return r.Value }, func(r R) any { return &r.Value }),
			scalar("description", func(r R) any { return r.Description }, func(r R) any { return &r.Description }),
			scalar("is_public", func(r R) any { return r.Public }, func(r R) any { return &r.Public }),
		},
	}
}
