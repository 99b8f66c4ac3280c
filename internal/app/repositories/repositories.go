package repositories

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/legacy"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/filestorage"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

// Backend names
const (
	BackendFile     = "file"
	BackendBlob     = "blob"
	BackendDynamoDB = "dynamodb"
	BackendPostgres = "postgres"
)

// Backends carries the connections stores are opened on. A nil member means
// the backend is not configured for this process.
type Backends struct {
	Postgres          *pgxpool.Pool
	Files             *filestorage.LocalStorage
	Blob              filestorage.DocumentStorage
	Dynamo            DynamoAPI
	DynamoTablePrefix string
	Metrics           *metrics.Metrics
	Clock             Clock
}

// Spec describes how to open a store for one record type
type Spec[R models.Record] struct {
	ContentType models.ContentType
	New         func() R
	// Table is nil for record types that have no relational layout
	Table    *Table[R]
	Defaults func() []R
}

// Open builds the store for spec on the named backend
func Open[R models.Record](spec Spec[R], backend string, b Backends) (Store[R], error) {
	opts := Options[R]{Defaults: spec.Defaults, Clock: b.Clock}

	var store Store[R]
	switch backend {
	case BackendFile:
		if b.Files == nil {
			return nil, notConfigured(spec.ContentType, backend)
		}
		store = NewFileStore(spec.ContentType, b.Files, opts)
	case BackendBlob:
		if b.Blob == nil {
			return nil, notConfigured(spec.ContentType, backend)
		}
		store = NewBlobStore(spec.ContentType, b.Blob, opts)
	case BackendDynamoDB:
		if b.Dynamo == nil {
			return nil, notConfigured(spec.ContentType, backend)
		}
		store = NewDynamoStore(spec.ContentType, b.Dynamo, b.DynamoTablePrefix, spec.New, opts)
	case BackendPostgres:
		if b.Postgres == nil {
			return nil, notConfigured(spec.ContentType, backend)
		}
		if spec.Table == nil {
			return nil, fmt.Errorf("%w: %s has no relational layout", apperrors.ErrUnknownBackend, spec.ContentType)
		}
		store = NewPostgresStore(spec.ContentType, b.Postgres, *spec.Table, opts)
	default:
		return nil, fmt.Errorf("%w: %q", apperrors.ErrUnknownBackend, backend)
	}

	return Instrument(spec.ContentType, store, b.Metrics), nil
}

func notConfigured(ct models.ContentType, backend string) error {
	return fmt.Errorf("%w: %s backend is not configured (needed by %s)", apperrors.ErrUnknownBackend, backend, ct)
}

func ptr[T any](v T) *T { return &v }

// Defaults are the built-in datasets served before a backend has any data
type Defaults struct {
	Team         func() []*models.TeamMember
	Clubs        func() []*models.Club
	Events       func() []*models.Event
	Hackathons   func() []*models.Hackathon
	Achievements func() []*models.Achievement
	Magazines    func() []*models.Magazine
	Settings     func() []*models.SiteSetting
}

// TeamSpec describes the team store
func TeamSpec(d Defaults) Spec[*models.TeamMember] {
	return Spec[*models.TeamMember]{ContentType: models.ContentTeam, New: func() *models.TeamMember { return &models.TeamMember{} }, Table: ptr(TeamTable()), Defaults: d.Team}
}

// ClubsSpec describes the clubs store
func ClubsSpec(d Defaults) Spec[*models.Club] {
	return Spec[*models.Club]{ContentType: models.ContentClubs, New: func() *models.Club { return &models.Club{} }, Table: ptr(ClubsTable()), Defaults: d.Clubs}
}

// EventsSpec describes the events store
func EventsSpec(d Defaults) Spec[*models.Event] {
	return Spec[*models.Event]{ContentType: models.ContentEvents, New: func() *models.Event { return &models.Event{} }, Table: ptr(EventsTable()), Defaults: d.Events}
}

// HackathonsSpec describes the hackathons store
func HackathonsSpec(d Defaults) Spec[*models.Hackathon] {
	return Spec[*models.Hackathon]{ContentType: models.ContentHackathons, New: func() *models.Hackathon { return &models.Hackathon{} }, Table: ptr(HackathonsTable()), Defaults: d.Hackathons}
}

// AchievementsSpec describes the achievements store
func AchievementsSpec(d Defaults) Spec[*models.Achievement] {
	return Spec[*models.Achievement]{ContentType: models.ContentAchievements, New: func() *models.Achievement { return &models.Achievement{} }, Table: ptr(AchievementsTable()), Defaults: d.Achievements}
}

// MagazinesSpec describes the magazines store
func MagazinesSpec(d Defaults) Spec[*models.Magazine] {
	return Spec[*models.Magazine]{ContentType: models.ContentMagazines, New: func() *models.Magazine { return &models.Magazine{} }, Table: ptr(MagazinesTable()), Defaults: d.Magazines}
}

// SettingsSpec describes the settings store
func SettingsSpec(d Defaults) Spec[*models.SiteSetting] {
	return Spec[*models.SiteSetting]{ContentType: models.ContentSettings, New: func() *models.SiteSetting { return &models.SiteSetting{} }, Table: ptr(SettingsTable()), Defaults: d.Settings}
}

// Repositories holds the current store of every content type
type Repositories struct {
	Team         Store[*models.TeamMember]
	Clubs        Store[*models.Club]
	Events       Store[*models.Event]
	Hackathons   Store[*models.Hackathon]
	Achievements Store[*models.Achievement]
	Magazines    Store[*models.Magazine]
	Settings     Store[*models.SiteSetting]
}

// BackendResolver names the configured backend of a content type
type BackendResolver func(ct models.ContentType) string

// NewRepositories opens the current store of every content type. The backend
// choice is resolved once here and never consulted again.
func NewRepositories(resolve BackendResolver, b Backends, d Defaults) (*Repositories, error) {
	var (
		repos = &Repositories{}
		err   error
	)
	if repos.Team, err = Open(TeamSpec(d), resolve(models.ContentTeam), b); err != nil {
		return nil, err
	}
	if repos.Clubs, err = Open(ClubsSpec(d), resolve(models.ContentClubs), b); err != nil {
		return nil, err
	}
	if repos.Events, err = Open(EventsSpec(d), resolve(models.ContentEvents), b); err != nil {
		return nil, err
	}
	if repos.Hackathons, err = Open(HackathonsSpec(d), resolve(models.ContentHackathons), b); err != nil {
		return nil, err
	}
	if repos.Achievements, err = Open(AchievementsSpec(d), resolve(models.ContentAchievements), b); err != nil {
		return nil, err
	}
	if repos.Magazines, err = Open(MagazinesSpec(d), resolve(models.ContentMagazines), b); err != nil {
		return nil, err
	}
	if repos.Settings, err = Open(SettingsSpec(d), resolve(models.ContentSettings), b); err != nil {
		return nil, err
	}
	return repos, nil
}

// LegacySources holds the read side of the legacy stores migrations copy from
type LegacySources struct {
	Backend      string
	Team         Source[*legacy.TeamMember]
	Clubs        Source[*legacy.Club]
	Events       Source[*legacy.Event]
	Hackathons   Source[*legacy.Hackathon]
	Achievements Source[*legacy.Achievement]
	Magazines    Source[*legacy.Magazine]
	Settings     Source[*legacy.Setting]
}

func legacySpec[R models.Record](ct models.ContentType, newRecord func() R) Spec[R] {
	return Spec[R]{ContentType: ct, New: newRecord}
}

// NewLegacySources opens every legacy store on backend. Legacy stores never
// serve defaults, so a missing document reads as empty.
func NewLegacySources(backend string, b Backends) (*LegacySources, error) {
	var (
		src = &LegacySources{Backend: backend}
		err error
	)
	if src.Team, err = Open(legacySpec(models.ContentTeam, func() *legacy.TeamMember { return &legacy.TeamMember{} }), backend, b); err != nil {
		return nil, err
	}
	if src.Clubs, err = Open(legacySpec(models.ContentClubs, func() *legacy.Club { return &legacy.Club{} }), backend, b); err != nil {
		return nil, err
	}
	if src.Events, err = Open(legacySpec(models.ContentEvents, func() *legacy.Event { return &legacy.Event{} }), backend, b); err != nil {
		return nil, err
	}
	if src.Hackathons, err = Open(legacySpec(models.ContentHackathons, func() *legacy.Hackathon { return &legacy.Hackathon{} }), backend, b); err != nil {
		return nil, err
	}
	if src.Achievements, err = Open(legacySpec(models.ContentAchievements, func() *legacy.Achievement { return &legacy.Achievement{} }), backend, b); err != nil {
		return nil, err
	}
	if src.Magazines, err = Open(legacySpec(models.ContentMagazines, func() *legacy.Magazine { return &legacy.Magazine{} }), backend, b); err != nil {
		return nil, err
	}
	if src.Settings, err = Open(legacySpec(models.ContentSettings, func() *legacy.Setting { return &legacy.Setting{} }), backend, b); err != nil {
		return nil, err
	}
	return src, nil
}
