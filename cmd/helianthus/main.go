package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Gobusters/ectoenv"
	"github.com/Gobusters/ectologger"
	"github.com/Gobusters/ectologger/zapadapter"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/pntechnology/Helianthus/config"
	"github.com/pntechnology/Helianthus/internal/repositories/artist"
	"github.com/pntechnology/Helianthus/internal/repositories/location"
	"github.com/pntechnology/Helianthus/internal/repositories/painting"
	"github.com/pntechnology/Helianthus/pkg/database"
	"github.com/pntechnology/Helianthus/pkg/httpclient"
	"github.com/pntechnology/Helianthus/pkg/pipeline"
	"github.com/pntechnology/Helianthus/pkg/tracing"
	"github.com/pntechnology/Helianthus/pkg/wikidata"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "helianthus",
		Short:         "Ingest painting records from Wikidata into a relational store",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(ingestCmd())
	return root
}

func ingestCmd() *cobra.Command {
	var artistQID string
	var limit int

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Run a full ingest for one artist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(cmd.Context(), artistQID, limit)
		},
	}

	cmd.Flags().StringVar(&artistQID, "artist", "", "QID of the artist to ingest (e.g. Q5582)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max paintings to fetch (0 uses the configured default)")
	cmd.MarkFlagRequired("artist")
	return cmd
}

func runIngest(ctx context.Context, artistQID string, limit int) error {
	godotenv.Load()

	var cfg config.Config
	if err := ectoenv.BindEnv(&cfg); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := newLogger(&cfg)

	if cfg.TracingEnabled {
		shutdown := tracing.Init(cfg.AppName)
		defer shutdown(context.Background())
	}

	db, err := database.Open(cfg.DatabaseDriver, cfg.DatabaseURL, logger)
	if err != nil {
		logger.WithError(err).Error("Failed to open database")
		return err
	}
	defer db.Close()

	db.SetMaxOpenConns(cfg.DatabaseMaxOpenConns)
	db.SetMaxIdleConns(cfg.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(cfg.DatabaseConnMaxLifetime)
	database.SetFlavor(cfg.DatabaseDriver)

	if err := migrate(&cfg, db, logger); err != nil {
		logger.WithError(err).Error("Failed to run migrations")
		return err
	}

	client := httpclient.NewClient(httpclient.Config{
		Timeout:         cfg.SourceQueryTimeout,
		MaxIdleConns:    10,
		IdleConnTimeout: httpclient.DefaultConfig().IdleConnTimeout,
	}, logger)

	source := wikidata.NewClient(wikidata.Config{
		Endpoint:     cfg.WikidataEndpoint,
		UserAgent:    cfg.WikidataUserAgent,
		QueryTimeout: cfg.SourceQueryTimeout,
		AskTimeout:   cfg.SourceAskTimeout,
		MaxAttempts:  cfg.SourceMaxAttempts,
		RetryBackoff: cfg.SourceRetryBackoff,
	}, client, logger)

	service := pipeline.NewService(
		pipeline.Config{
			EnrichmentPacing: cfg.EnrichmentPacing,
			ValidatePainter:  cfg.ValidatePainter,
		},
		db,
		source,
		artist.NewRepository(db, logger),
		location.NewRepository(db, logger),
		painting.NewRepository(db, logger),
		logger,
	)

	if limit <= 0 {
		limit = cfg.IngestDefaultLimit
	}

	result, err := service.Run(ctx, pipeline.RunRequest{ArtistQID: artistQID, Limit: limit})
	if err != nil {
		logger.WithError(err).WithField("artist_qid", artistQID).Error("Ingest run failed")
		return err
	}

	printSummary(result)
	return nil
}

func migrate(cfg *config.Config, db database.DB, logger ectologger.Logger) error {
	driver, err := database.DriverInstance(db)
	if err != nil {
		return err
	}

	folder := cfg.DatabaseMigrationFolderPath
	if folder == "" {
		if cfg.DatabaseDriver == "postgres" {
			folder = "db/pg"
		} else {
			folder = "db/sqlite3"
		}
	}

	service := database.NewMigrationService(logger, &database.MigrationConfig{
		MigrationFolderPath: folder,
		Version:             uint(cfg.DatabaseMigrationVersion),
		Force:               cfg.DatabaseMigrationForce,
		AutoRollback:        cfg.DatabaseMigrationAutoRollback,
	})
	return service.Migrate(cfg.AppName, driver)
}

func newLogger(cfg *config.Config) ectologger.Logger {
	var zapConfig zap.Config
	if cfg.PrettyLogs {
		zapConfig = zap.NewDevelopmentConfig()
	} else {
		zapConfig = zap.NewProductionConfig()
	}
	if level, err := zapcore.ParseLevel(cfg.LogLevel); err == nil {
		zapConfig.Level = zap.NewAtomicLevelAt(level)
	}

	zapLogger, err := zapConfig.Build()
	if err != nil {
		zapLogger = zap.NewNop()
	}
	return zapadapter.NewZapEctoLogger(zapLogger, nil)
}

func printSummary(result *pipeline.Result) {
	name := "unknown"
	if result.ArtistName != nil {
		name = *result.ArtistName
	}
	fmt.Printf("Artist:    %s (%s)\n", result.ArtistQID, name)
	fmt.Printf("Paintings: %d seen, %d inserted, %d updated\n",
		result.PaintingsSeen, result.PaintingsInserted, result.PaintingsUpdated)
	fmt.Printf("Locations: %d resolved, %d not recorded at source\n",
		result.LocationsResolved, result.LocationsMissing)
}
