package seed

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/repositories"
	"github.com/yigit/councilcms/internal/pkg/filestorage"
)

func fileRepos(t *testing.T) (*repositories.Repositories, string) {
	t.Helper()
	dir := t.TempDir()
	ls, err := filestorage.NewLocalStorage(dir)
	require.NoError(t, err)
	repos, err := repositories.NewRepositories(
		func(models.ContentType) string { return repositories.BackendFile },
		repositories.Backends{Files: ls},
		Defaults(),
	)
	require.NoError(t, err)
	return repos, dir
}

func TestCreateDefaultDataFillsEmptyStores(t *testing.T) {
	repos, dir := fileRepos(t)
	for _, name := range []string{"settings.json", "clubs.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	require.NoError(t, CreateDefaultData(context.Background(), repos, zerolog.Nop()))

	settings, err := repos.Settings.GetAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, settings, len(DefaultSettings()))
	assert.Equal(t, "site_title", settings["site-title"].Key)

	clubs, err := repos.Clubs.GetAll(context.Background())
	require.NoError(t, err)
	assert.Contains(t, clubs, "robotics-club")
}

func TestCreateDefaultDataLeavesExistingData(t *testing.T) {
	repos, _ := fileRepos(t)
	ctx := context.Background()

	_, err := repos.Clubs.Create(ctx, &models.Club{Name: "Quiz Club", Description: "Trivia", Category: "cultural"})
	require.NoError(t, err)
	require.NoError(t, repos.Clubs.Delete(ctx, "programming-club"))

	require.NoError(t, CreateDefaultData(ctx, repos, zerolog.Nop()))

	clubs, err := repos.Clubs.GetAll(ctx)
	require.NoError(t, err)
	assert.Contains(t, clubs, "quiz-club")
	assert.NotContains(t, clubs, "programming-club")
}

func TestDefaultsAreFreshValues(t *testing.T) {
	a := DefaultClubs()
	a[0].Name = "changed"
	assert.NotEqual(t, "changed", DefaultClubs()[0].Name)
}
