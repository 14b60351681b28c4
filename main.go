package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/gilanghuda/habit-tracker-backend/pkg/catalog"
	"github.com/gilanghuda/habit-tracker-backend/pkg/config"
	"github.com/gilanghuda/habit-tracker-backend/pkg/database"
	"github.com/gilanghuda/habit-tracker-backend/pkg/logger"
	"github.com/gilanghuda/habit-tracker-backend/pkg/routes"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "habit-tracker",
	Short: "Habit tracker API server",
	Long: `Habit tracker scores daily habit entries, keeps streaks and weekly
aggregates, and runs challenges and badges on top of them.

COMMANDS:

  habit-tracker serve     # migrate, seed the catalog and start the HTTP API
  habit-tracker migrate   # create the schema
  habit-tracker seed      # upsert the challenge and badge catalog

Configuration is read from the environment and an optional .env file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		cfg, err := config.Load()
		if err != nil {
			return err
		}
		config.Cfg = cfg
		return logger.Init(logger.Config{Level: cfg.LogLevel, File: cfg.LogFile})
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Cfg
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := prepareDatabase(cfg); err != nil {
			return err
		}
		defer database.CloseDB()

		if _, err := seedCatalog(); err != nil {
			return err
		}

		app := routes.NewApp(cfg)
		logger.Info("starting server", "port", cfg.Port, "timezone", cfg.Location.String())
		return app.Listen(":" + cfg.Port)
	},
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prepareDatabase(config.Cfg); err != nil {
			return err
		}
		defer database.CloseDB()

		color.Green("Schema is up to date (%s)", database.Driver)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Upsert the challenge and badge catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := prepareDatabase(config.Cfg); err != nil {
			return err
		}
		defer database.CloseDB()

		res, err := seedCatalog()
		if err != nil {
			color.Red("Seeding failed: %v", err)
			return err
		}
		color.Green("Seeded %d challenges and %d badges", res.Challenges, res.Badges)
		return nil
	},
}

func prepareDatabase(cfg *config.Config) error {
	db, err := database.InitDB(cfg)
	if err != nil {
		return fmt.Errorf("failed to connect to the database: %w", err)
	}
	if err := database.Migrate(db, database.Driver); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}
	return nil
}

func seedCatalog() (catalog.SeedResult, error) {
	cat, err := catalog.Default()
	if err != nil {
		return catalog.SeedResult{}, err
	}
	res, err := catalog.Seed(database.DB, cat)
	if err != nil {
		return res, fmt.Errorf("failed to seed catalog: %w", err)
	}
	logger.Info("catalog seeded", "challenges", res.Challenges, "badges", res.Badges)
	return res, nil
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
