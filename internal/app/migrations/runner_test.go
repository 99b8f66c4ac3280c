package migrations

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/models/legacy"
	"github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/pkg/apperrors"
	"github.com/yigit/councilcms/internal/pkg/filestorage"
	"github.com/yigit/councilcms/internal/pkg/metrics"
)

const legacyEvents = `{
  "tech-fest": {"title": "Tech Fest", "description": "Annual fest", "date": "2023-03-10", "type": "fest", "images": ["events/fest.jpg"], "isDraft": false},
  "hack-night": {"title": "Hack Night", "description": "Overnight build", "date": "2023-04-01", "type": "hackathon", "club": "programming-club", "images": [], "isDraft": true},
  "broken": {"title": "", "description": "no title", "date": "2023-05-01", "type": "talk"}
}`

type fixture struct {
	legacyDir string
	targetDir string
	source    repositories.Source[*legacy.Event]
	target    repositories.Store[*models.Event]
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{legacyDir: t.TempDir(), targetDir: t.TempDir()}

	legacyFiles, err := filestorage.NewLocalStorage(f.legacyDir)
	require.NoError(t, err)
	targetFiles, err := filestorage.NewLocalStorage(f.targetDir)
	require.NoError(t, err)

	src, err := repositories.NewLegacySources(repositories.BackendFile, repositories.Backends{Files: legacyFiles})
	require.NoError(t, err)
	f.source = src.Events

	f.target, err = repositories.Open(repositories.EventsSpec(repositories.Defaults{}), repositories.BackendFile, repositories.Backends{Files: targetFiles})
	require.NoError(t, err)
	return f
}

func (f *fixture) writeLegacy(t *testing.T, body string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(f.legacyDir, "events.json"), []byte(body), 0o644))
}

func (f *fixture) runner() *Runner[*legacy.Event, *models.Event] {
	return &Runner[*legacy.Event, *models.Event]{
		Type:    models.ContentEvents,
		Source:  f.source,
		Target:  f.target,
		Map:     MapEvent,
		Logger:  zerolog.Nop(),
		Metrics: metrics.New(),
	}
}

func TestRunCopiesLegacyRecords(t *testing.T) {
	f := newFixture(t)
	f.writeLegacy(t, legacyEvents)
	ctx := context.Background()

	report, err := f.runner().Run(ctx, Options{Mode: ModeSkipExisting})
	require.NoError(t, err)

	assert.True(t, report.Migrated())
	assert.Equal(t, 3, report.Read)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 2, report.Total)
	assert.Equal(t, map[string]int{"fest": 1, "hackathon": 1}, report.ByCategory)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "broken", report.Errors[0].ID)
	assert.Contains(t, report.Errors[0].Error, "title")

	got, err := f.target.GetByID(ctx, "hack-night")
	require.NoError(t, err)
	assert.True(t, got.Draft)
	assert.Equal(t, "programming-club", got.Organizer)
	assert.False(t, got.CreatedAt.IsZero())

	fest, err := f.target.GetByID(ctx, "tech-fest")
	require.NoError(t, err)
	assert.Equal(t, []models.GalleryItem{{URL: "/events/fest.jpg"}}, fest.Gallery)
}

func TestRunIsIdempotentInSkipMode(t *testing.T) {
	f := newFixture(t)
	f.writeLegacy(t, legacyEvents)
	ctx := context.Background()

	_, err := f.runner().Run(ctx, Options{})
	require.NoError(t, err)
	before, err := f.target.GetByID(ctx, "tech-fest")
	require.NoError(t, err)

	report, err := f.runner().Run(ctx, Options{})
	require.NoError(t, err)
	assert.False(t, report.Migrated())
	assert.Equal(t, 2, report.Skipped)
	assert.Equal(t, 2, report.Total)

	after, err := f.target.GetByID(ctx, "tech-fest")
	require.NoError(t, err)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestRunSkipModeKeepsEditedTargetRecords(t *testing.T) {
	f := newFixture(t)
	f.writeLegacy(t, legacyEvents)
	ctx := context.Background()

	_, err := f.target.Insert(ctx, &models.Event{Base: models.Base{ID: "tech-fest"}, Title: "Tech Fest 2024", Date: "2024-03-10", Category: "fest"})
	require.NoError(t, err)

	report, err := f.runner().Run(ctx, Options{Mode: ModeSkipExisting})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Skipped)
	assert.Equal(t, 1, report.Inserted)

	got, err := f.target.GetByID(ctx, "tech-fest")
	require.NoError(t, err)
	assert.Equal(t, "Tech Fest 2024", got.Title)
}

func TestRunReplaceModeClearsTarget(t *testing.T) {
	f := newFixture(t)
	f.writeLegacy(t, legacyEvents)
	ctx := context.Background()

	_, err := f.target.Create(ctx, &models.Event{Title: "Orphan", Date: "2024-01-01", Category: "talk"})
	require.NoError(t, err)
	_, err = f.target.Insert(ctx, &models.Event{Base: models.Base{ID: "tech-fest"}, Title: "Edited", Date: "2024-03-10", Category: "fest"})
	require.NoError(t, err)

	report, err := f.runner().Run(ctx, Options{Mode: ModeReplace})
	require.NoError(t, err)
	assert.Equal(t, 2, report.Cleared)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 2, report.Total)

	all, err := f.target.GetAll(ctx)
	require.NoError(t, err)
	assert.NotContains(t, all, "orphan")
	assert.Equal(t, "Tech Fest", all["tech-fest"].Title)
}

func TestRunWithMissingLegacyDocument(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.target.Create(ctx, &models.Event{Title: "Kept", Date: "2024-01-01", Category: "talk"})
	require.NoError(t, err)

	report, err := f.runner().Run(ctx, Options{Mode: ModeReplace})
	require.NoError(t, err)
	assert.False(t, report.Migrated())
	assert.False(t, report.SourceUnavailable)
	assert.Equal(t, 0, report.Cleared)
	assert.Equal(t, 1, report.Total)
}

func TestRunWithUnreadableLegacyDocument(t *testing.T) {
	f := newFixture(t)
	f.writeLegacy(t, "{not json")

	report, err := f.runner().Run(context.Background(), Options{})
	require.NoError(t, err)
	assert.True(t, report.SourceUnavailable)
	assert.Equal(t, 0, report.Inserted)
}

func TestRunFailsWhenTargetUnreadable(t *testing.T) {
	f := newFixture(t)
	f.writeLegacy(t, legacyEvents)
	require.NoError(t, os.WriteFile(filepath.Join(f.targetDir, "events.json"), []byte("{oops"), 0o644))

	_, err := f.runner().Run(context.Background(), Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrStorageUnavailable)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModeSkipExisting, m)

	m, err = ParseMode("replace")
	require.NoError(t, err)
	assert.Equal(t, ModeReplace, m)

	_, err = ParseMode("merge")
	assert.ErrorIs(t, err, apperrors.ErrBadRequest)
}

func openFileStores(t *testing.T, d repositories.Defaults) (legacyDir, targetDir string, src *repositories.LegacySources, target *repositories.Repositories) {
	t.Helper()
	legacyDir, targetDir = t.TempDir(), t.TempDir()
	legacyFiles, err := filestorage.NewLocalStorage(legacyDir)
	require.NoError(t, err)
	targetFiles, err := filestorage.NewLocalStorage(targetDir)
	require.NoError(t, err)

	src, err = repositories.NewLegacySources(repositories.BackendFile, repositories.Backends{Files: legacyFiles})
	require.NoError(t, err)
	target, err = repositories.NewRepositories(func(models.ContentType) string { return repositories.BackendFile }, repositories.Backends{Files: targetFiles}, d)
	require.NoError(t, err)
	return legacyDir, targetDir, src, target
}

func TestRunKeepsGoingPastUndecodableRecords(t *testing.T) {
	legacyDir, _, src, target := openFileStores(t, repositories.Defaults{})
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "achievements.json"), []byte(`{
  "a": {"title": "Gold in Robotics", "year": "2021", "type": "robotics"},
  "b": {"title": "Silver in Coding", "year": "2022 edition", "type": "coding"},
  "c": {"title": "Bronze in Drones", "year": 2021, "type": "aero"}
}`), 0o644))

	runner := &Runner[*legacy.Achievement, *models.Achievement]{
		Type:   models.ContentAchievements,
		Source: src.Achievements,
		Target: target.Achievements,
		Map:    MapAchievement,
		Logger: zerolog.Nop(),
	}
	report, err := runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.False(t, report.SourceUnavailable)
	assert.Equal(t, 3, report.Read)
	assert.Equal(t, 2, report.Inserted)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Errors, 1)
	assert.Equal(t, "c", report.Errors[0].ID)

	got, err := target.Achievements.GetByID(context.Background(), "b")
	require.NoError(t, err)
	assert.Equal(t, 2022, got.Year)
}

func TestRunIgnoresDefaultDatasetOfMissingTarget(t *testing.T) {
	defaults := repositories.Defaults{Clubs: func() []*models.Club {
		return []*models.Club{
			{Base: models.Base{ID: "programming-club"}, Name: "Programming Club", Description: "default description", Category: "technical"},
			{Base: models.Base{ID: "robotics-club"}, Name: "Robotics Club", Description: "default description", Category: "technical"},
		}
	}}
	legacyDir, targetDir, src, target := openFileStores(t, defaults)
	require.NoError(t, os.WriteFile(filepath.Join(legacyDir, "clubs.json"), []byte(`{
  "programming-club": {"name": "Programming Club", "description": "legacy description", "type": "technical"}
}`), 0o644))

	runner := &Runner[*legacy.Club, *models.Club]{
		Type:   models.ContentClubs,
		Source: src.Clubs,
		Target: target.Clubs,
		Map:    MapClub,
		Logger: zerolog.Nop(),
	}
	report, err := runner.Run(context.Background(), Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, report.Inserted)
	assert.Equal(t, 0, report.Skipped)
	assert.Equal(t, 1, report.Total)
	assert.FileExists(t, filepath.Join(targetDir, "clubs.json"))

	all, err := target.Clubs.GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "legacy description", all["programming-club"].Description)
}
