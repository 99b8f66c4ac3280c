package seed

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	appModels "github.com/yigit/councilcms/internal/app/models"
	appRepos "github.com/yigit/councilcms/internal/app/repositories"
)

// CreateDefaultData inserts the built-in datasets into stores that are empty.
// It keeps going after a failure and returns every error it collected.
func CreateDefaultData(ctx context.Context, repos *appRepos.Repositories, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default data (settings/clubs)...")
	var finalErr error // To collect potential errors without stopping the process

	finalErr = errors.Join(finalErr, seedStore(ctx, appModels.ContentSettings, repos.Settings, DefaultSettings(), lgr))
	finalErr = errors.Join(finalErr, seedStore(ctx, appModels.ContentClubs, repos.Clubs, DefaultClubs(), lgr))

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func seedStore[R appModels.Record](ctx context.Context, ct appModels.ContentType, store appRepos.Store[R], records []R, lgr zerolog.Logger) error {
	existing, err := store.GetAll(ctx)
	if err != nil {
		lgr.Error().Err(err).Str("content_type", ct.String()).Msg("Error reading store before seeding")
		return err
	}

	// a store on a missing resource already answers with the defaults
	if len(existing) > 0 {
		lgr.Debug().Str("content_type", ct.String()).Int("records", len(existing)).Msg("Store already has data, skipping seed")
		return nil
	}

	var finalErr error
	inserted := 0
	for _, r := range records {
		if _, err := store.Insert(ctx, r); err != nil {
			if errors.Is(err, appRepos.ErrAlreadyExists) {
				continue
			}
			lgr.Error().Err(err).Str("content_type", ct.String()).Str("id", r.GetID()).Msg("Error inserting default record")
			finalErr = errors.Join(finalErr, err)
			continue
		}
		inserted++
	}

	lgr.Info().Str("content_type", ct.String()).Int("inserted", inserted).Msg("Default records created")
	return finalErr
}
