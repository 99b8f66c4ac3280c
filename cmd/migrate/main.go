package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/councilcms/internal/app/migrations"
	appModels "github.com/yigit/councilcms/internal/app/models"
	appRepos "github.com/yigit/councilcms/internal/app/repositories"
	appServices "github.com/yigit/councilcms/internal/app/services"
	"github.com/yigit/councilcms/internal/bootstrap"
	"github.com/yigit/councilcms/internal/config"
	"github.com/yigit/councilcms/internal/pkg/auth"
	"github.com/yigit/councilcms/internal/pkg/logger"
	"github.com/yigit/councilcms/internal/seed"
)

const programName = "councilcms-migrate"

var runFlags = struct {
	configFile string
	types      []string
	all        bool
	from       string
	to         string
	mode       string
}{}

func main() {
	rootCmd := &cobra.Command{
		Use:           programName,
		Short:         "Copies legacy content into the current record stores",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.AddCommand(runCommand(), hashPasswordCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the migration of one or more content types",
		Example: `  councilcms-migrate run --type events --from blob
  councilcms-migrate run --all --mode replace`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runMigrations(ctx, cmd)
		},
	}
	cmd.Flags().StringVar(&runFlags.configFile, "config", bootstrap.DefaultConfigPath, "path to config file")
	cmd.Flags().StringSliceVar(&runFlags.types, "type", nil, "content type to migrate (repeatable)")
	cmd.Flags().BoolVar(&runFlags.all, "all", false, "migrate every content type")
	cmd.Flags().StringVar(&runFlags.from, "from", "", "legacy backend to read (defaults to legacy.source)")
	cmd.Flags().StringVar(&runFlags.to, "to", "", "write into this backend instead of the configured one")
	cmd.Flags().StringVar(&runFlags.mode, "mode", string(migrations.ModeSkipExisting), "skip or replace")
	cmd.MarkFlagsMutuallyExclusive("type", "all")
	cmd.MarkFlagsOneRequired("type", "all")
	return cmd
}

func selectedTypes() ([]appModels.ContentType, error) {
	if runFlags.all {
		return appModels.AllContentTypes, nil
	}
	out := make([]appModels.ContentType, 0, len(runFlags.types))
	for _, t := range runFlags.types {
		ct, err := appModels.ParseContentType(t)
		if err != nil {
			return nil, err
		}
		out = append(out, ct)
	}
	return out, nil
}

func runMigrations(ctx context.Context, cmd *cobra.Command) error {
	mode, err := migrations.ParseMode(runFlags.mode)
	if err != nil {
		return err
	}
	types, err := selectedTypes()
	if err != nil {
		return err
	}

	cfg, _, err := bootstrap.LoadConfigAndSetupLogger(runFlags.configFile)
	if err != nil {
		return err
	}
	lgr := logger.Component(programName)
	if runFlags.to != "" {
		if cfg.Storage.Overrides == nil {
			cfg.Storage.Overrides = map[string]string{}
		}
		for _, ct := range types {
			cfg.Storage.Overrides[ct.String()] = runFlags.to
		}
	}
	// Reject a bad --to before touching any backend
	for _, ct := range types {
		if backend := cfg.BackendFor(ct.String()); !config.ValidBackend(backend) {
			return fmt.Errorf("unknown target backend %q for %s", backend, ct)
		}
	}

	svc, closeFn, err := buildMigrationService(ctx, cfg, lgr)
	if err != nil {
		return err
	}
	defer closeFn()

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	failed := 0
	for _, ct := range types {
		report, err := svc.Migrate(ctx, ct, runFlags.from, mode)
		if err != nil {
			lgr.Error().Err(err).Str("contentType", ct.String()).Msg("Migration failed")
			failed++
			continue
		}
		if err := enc.Encode(report); err != nil {
			return err
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d migrations failed", failed, len(types))
	}
	return nil
}

func buildMigrationService(ctx context.Context, cfg *config.Config, lgr zerolog.Logger) (appServices.MigrationService, func(), error) {
	pool, err := bootstrap.SetupDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if pool != nil {
			pool.Close()
		}
	}

	backends, err := bootstrap.OpenBackends(ctx, cfg.Storage.BackendSettings, bootstrap.CurrentBackends(cfg), pool, nil, lgr)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	repos, err := appRepos.NewRepositories(func(ct appModels.ContentType) string {
		return cfg.BackendFor(ct.String())
	}, backends, seed.Defaults())
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	svc := appServices.NewMigrationService(repos, bootstrap.LegacyOpener(ctx, cfg, nil, lgr), cfg.Legacy.Source, nil, lgr)
	return svc, closeFn, nil
}

func hashPasswordCommand() *cobra.Command {
	cost := auth.BcryptCost
	cmd := &cobra.Command{
		Use:   "hash-password <password>",
		Short: "Print the bcrypt hash to use as admin.password_hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := auth.HashPasswordWithCost(args[0], cost)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
	cmd.Flags().IntVar(&cost, "cost", cost, "bcrypt cost")
	return cmd
}
