package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mkuiper/guardplan/internal/config"
	"github.com/mkuiper/guardplan/pkg/api"
	"github.com/mkuiper/guardplan/pkg/clients/distanceclient"
	"github.com/mkuiper/guardplan/pkg/core/services"
	"github.com/mkuiper/guardplan/pkg/postgres"
)

// App holds the application dependencies
type App struct {
	cfg      *config.Config
	database *postgres.DB
	distance *distanceclient.Client
	logger   *zap.Logger
	ctx      context.Context
}

var app *App

func main() {
	rootCmd := &cobra.Command{
		Use:   "guardplan",
		Short: "Guardplan CLI - detect coverage gaps and rank fill candidates",
		Long:  `A planning tool for security-staffing rosters: finds site-days without coverage and ranks available employees by suitability under labor-rule constraints.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initApp(cmd.Name())
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				if app.logger != nil {
					app.logger.Sync()
				}
				if app.database != nil {
					app.database.Close()
				}
			}
		},
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(detectGapsCmd())
	rootCmd.AddCommand(suggestCmd())
	rootCmd.AddCommand(checkShiftCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// initApp sets up logger, config, database, and the distance client
func initApp(command string) error {
	var err error
	app = &App{
		ctx: context.Background(),
	}

	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	app.logger, err = initLogger(command)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.logger.Info("Starting guardplan", zap.String("command", command))

	app.cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	app.logger.Debug("Configuration loaded successfully")

	app.database, err = postgres.NewDB(app.ctx, app.cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	app.logger.Info("Database connection established")

	app.distance, err = distanceclient.NewClient(
		app.cfg.DistanceAPIKey,
		app.cfg.DistanceTimeout(),
		app.cfg.Distance.RatePerKm,
		app.logger,
	)
	if err != nil {
		return fmt.Errorf("failed to create distance client: %w", err)
	}

	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.database.RunMigrations(app.ctx); err != nil {
				return err
			}
			fmt.Println("Migrations applied.")
			return nil
		},
	}
}

func detectGapsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "detect-gaps <start_date> [end_date]",
		Short: "Detect uncovered assignment-days in a date range (end defaults to start + 6 days)",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := parseDate(args[0])
			if err != nil {
				return err
			}
			end := start.AddDate(0, 0, 6)
			if len(args) > 1 {
				if end, err = parseDate(args[1]); err != nil {
					return err
				}
			}

			report, err := services.DetectGaps(app.ctx, app.database, app.distance, app.logger, app.cfg.PlanningParams(), start, end)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d gaps between %s and %s\n\n", len(report.Gaps), report.StartDate, report.EndDate)
			for _, gap := range report.Gaps {
				fmt.Printf("%s  %s (%s)\n", gap.Date, gap.LocationName, gap.ClientName)
				for i, candidate := range gap.SuggestedEmployees {
					if i >= 3 {
						fmt.Printf("   ... and %d more candidates\n", len(gap.SuggestedEmployees)-i)
						break
					}
					fmt.Printf("   %3d  %s  %s\n", candidate.Score, candidate.Name, strings.Join(candidate.Reasons, ", "))
				}
				fmt.Println()
			}

			return nil
		},
	}
}

func suggestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggest <assignment_id> <date>",
		Short: "Rank all active employees for filling one assignment on one date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid assignment id %q: %w", args[0], err)
			}
			date, err := parseDate(args[1])
			if err != nil {
				return err
			}

			candidates, err := services.SuggestCandidates(app.ctx, app.database, app.distance, app.logger, app.cfg.PlanningParams(), args[0], date)
			if err != nil {
				return err
			}

			fmt.Printf("\n%d candidates for %s:\n\n", len(candidates), args[1])
			for _, candidate := range candidates {
				fmt.Printf("%3d  %s\n", candidate.Score, candidate.Name)
				for _, reason := range candidate.Reasons {
					fmt.Printf("      + %s\n", reason)
				}
				for _, warning := range candidate.Warnings {
					fmt.Printf("      ! %s\n", warning)
				}
			}

			return nil
		},
	}
}

func checkShiftCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check-shift <employee_id> <date> <start> <end> [break_minutes]",
		Short: "Validate a prospective shift against rest and hour rules",
		Args:  cobra.RangeArgs(4, 5),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := uuid.Parse(args[0]); err != nil {
				return fmt.Errorf("invalid employee id %q: %w", args[0], err)
			}
			date, err := parseDate(args[1])
			if err != nil {
				return err
			}
			breakMinutes := 0
			if len(args) > 4 {
				if breakMinutes, err = strconv.Atoi(args[4]); err != nil {
					return fmt.Errorf("break_minutes must be a number: %w", err)
				}
			}

			result, err := services.ValidateShift(app.ctx, app.database, app.logger, app.cfg.PlanningParams(), services.ShiftValidationRequest{
				EmployeeID:   args[0],
				Date:         date,
				StartTime:    args[2],
				EndTime:      args[3],
				BreakMinutes: breakMinutes,
			})
			if err != nil {
				return err
			}

			if result.Valid {
				fmt.Printf("OK: %.1fh shift, %.1f/%.1f hours scheduled this week\n",
					result.ShiftHours, result.CurrentWeekHours, result.MaxWeekHours)
				return nil
			}

			fmt.Println("Shift violates planning rules:")
			for _, violation := range result.Violations {
				fmt.Printf("  - %s\n", violation)
			}
			return nil
		},
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the planning HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			handler := &api.Handler{
				Store:    app.database,
				Distance: app.distance,
				Logger:   app.logger,
				Params:   app.cfg.PlanningParams(),
			}

			app.logger.Info("Listening", zap.String("addr", app.cfg.ListenAddr))
			return handler.Router().Run(app.cfg.ListenAddr)
		},
	}
}
