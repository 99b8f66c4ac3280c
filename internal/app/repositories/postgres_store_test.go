package repositories_test

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/councilcms/internal/app/migrations"
	"github.com/yigit/councilcms/internal/app/models"
	"github.com/yigit/councilcms/internal/app/repositories"
)

// openTestPool connects to CMS_TEST_DATABASE_URL and skips the test when it is unset
func openTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("CMS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("CMS_TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, migrations.NewMigrator(pool).Apply(ctx, migrations.Schema))
	return pool
}

func TestPostgresStoreRoundTrip(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	store, err := repositories.Open(repositories.ClubsSpec(repositories.Defaults{}), repositories.BackendPostgres, repositories.Backends{Postgres: pool})
	require.NoError(t, err)
	_, err = store.Clear(ctx)
	require.NoError(t, err)

	created, err := store.Create(ctx, &models.Club{
		Name:        "Robotics Club",
		Description: "We build robots",
		Category:    "technical",
		Gallery:     []models.GalleryItem{{URL: "/uploads/bot.jpg", Caption: "Bot"}},
		Team:        []models.ClubMember{{Name: "Asha", Role: "Lead"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "robotics-club", created.ID)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Gallery, got.Gallery)
	assert.Equal(t, created.Team, got.Team)
	assert.True(t, created.CreatedAt.Equal(got.CreatedAt))

	updated, err := store.Update(ctx, created.ID, func(c *models.Club) error {
		c.Instagram = "@robotics"
		return nil
	})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))

	require.NoError(t, store.Delete(ctx, created.ID))
	_, err = store.GetByID(ctx, created.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPostgresStoreSettingValues(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	store, err := repositories.Open(repositories.SettingsSpec(repositories.Defaults{}), repositories.BackendPostgres, repositories.Backends{Postgres: pool})
	require.NoError(t, err)
	_, err = store.Clear(ctx)
	require.NoError(t, err)

	created, err := store.Create(ctx, &models.SiteSetting{Key: "contact_email", Value: "council@example.edu", Public: true})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "council@example.edu", got.Value)
	assert.True(t, got.Public)
}

func TestPostgresStoreAllowsRepeatedSettingKey(t *testing.T) {
	pool := openTestPool(t)
	ctx := context.Background()

	store, err := repositories.Open(repositories.SettingsSpec(repositories.Defaults{}), repositories.BackendPostgres, repositories.Backends{Postgres: pool})
	require.NoError(t, err)
	_, err = store.Clear(ctx)
	require.NoError(t, err)

	first, err := store.Create(ctx, &models.SiteSetting{Key: "site_title", Value: "Technical Council"})
	require.NoError(t, err)
	second, err := store.Create(ctx, &models.SiteSetting{Key: "site_title", Value: "Tech Council"})
	require.NoError(t, err)
	assert.Equal(t, "site-title", first.ID)
	assert.Equal(t, "site-title-2", second.ID)

	stored, bad, err := store.GetStored(ctx)
	require.NoError(t, err)
	assert.Empty(t, bad)
	assert.Len(t, stored, 2)
}
