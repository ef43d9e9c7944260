package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/saeid-a/AssessmentIntake/internal/intake"
	"github.com/saeid-a/AssessmentIntake/internal/repository"
	"github.com/spf13/cobra"
)

var (
	dbURL         string
	migrationsDir string
)

var rootCmd = &cobra.Command{
	Use:           "migrate",
	Short:         "Manage the intake database schema",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if dbURL == "" {
			dbURL = os.Getenv("DB_URL")
		}
		if dbURL == "" {
			return errors.New("DB_URL environment variable is required")
		}
		return nil
	},
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)

		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Println("Migration up successful")
		return nil
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Roll back all migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)

		if err := m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return err
		}
		log.Println("Migration down successful")
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the applied schema version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := newMigrator()
		if err != nil {
			return err
		}
		defer closeMigrator(m)

		version, dirty, err := m.Version()
		if errors.Is(err, migrate.ErrNilVersion) {
			fmt.Println("no migrations applied")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty: %t)\n", version, dirty)
		return nil
	},
}

var phoneVerified bool

// phoneCmd registers a phone number so its owner can start the intake.
var phoneCmd = &cobra.Command{
	Use:   "phone <number>",
	Short: "Register a phone number for the intake",
	Example: `  migrate phone 5511987654321 --verified
  migrate phone 551187654321`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := intake.ValidatePhone(args[0]); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()
		pool, err := pgxpool.New(ctx, dbURL)
		if err != nil {
			return fmt.Errorf("unable to connect to database: %w", err)
		}
		defer pool.Close()

		entry, err := repository.NewPhoneRepository(pool).Create(ctx, args[0], phoneVerified)
		if err != nil {
			return fmt.Errorf("register phone: %w", err)
		}
		fmt.Printf("%s %s verified=%t\n", entry.ID, entry.Phone, entry.Verified)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "database URL (defaults to DB_URL)")
	rootCmd.PersistentFlags().StringVar(&migrationsDir, "path", "", "migrations directory (searched upwards from the working directory by default)")
	phoneCmd.Flags().BoolVar(&phoneVerified, "verified", false, "mark the number as verified")

	rootCmd.AddCommand(upCmd, downCmd, versionCmd, phoneCmd)
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// No subcommand keeps the old behaviour of migrating up.
	if len(os.Args) == 1 {
		rootCmd.SetArgs([]string{"up"})
	}
	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}

func newMigrator() (*migrate.Migrate, error) {
	path, err := resolveMigrationsPath(migrationsDir)
	if err != nil {
		return nil, err
	}
	return migrate.New("file://"+path, dbURL)
}

func closeMigrator(m *migrate.Migrate) {
	if srcErr, dbErr := m.Close(); srcErr != nil || dbErr != nil {
		log.Printf("close migrator: source=%v database=%v", srcErr, dbErr)
	}
}

// resolveMigrationsPath returns explicit when set, otherwise the first
// migrations directory found walking up from the working directory or
// the executable.
func resolveMigrationsPath(explicit string) (string, error) {
	if explicit != "" {
		return filepath.Abs(explicit)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	candidates := []string{}
	current := cwd
	for i := 0; i < 6; i++ {
		candidates = append(candidates, filepath.Join(current, "migrations"))
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	if exePath, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exePath)
		candidates = append(candidates,
			filepath.Join(exeDir, "migrations"),
			filepath.Join(exeDir, "..", "migrations"),
			filepath.Join(exeDir, "..", "..", "migrations"),
		)
	}

	for _, candidate := range candidates {
		info, err := os.Stat(candidate)
		if err == nil && info.IsDir() {
			return filepath.Abs(candidate)
		}
	}
	return "", errors.New("migrations directory not found")
}
