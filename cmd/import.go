package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/kozaktomas/face-attend/internal/attendance"
	"github.com/kozaktomas/face-attend/internal/config"
	"github.com/kozaktomas/face-attend/internal/database/postgres"
	"github.com/kozaktomas/face-attend/internal/identity"
)

var importCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import users and attendance records from a YAML file",
	Long: `Import users and attendance records from a YAML file.

The file may contain a "users" list (name, nationalId, descriptor) and an
"attendance" list (userId or nationalId, optional RFC 3339 timestamp).
Users are registered first, then attendance is marked, so a file can
reference users it defines itself.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().Bool("skip-existing", false, "Skip users whose national ID is already registered instead of failing")
}

type importUser struct {
	Name       string    `yaml:"name"`
	NationalID string    `yaml:"nationalId"`
	Descriptor []float32 `yaml:"descriptor"`
}

type importAttendance struct {
	UserID     string `yaml:"userId"`
	NationalID string `yaml:"nationalId"`
	Timestamp  string `yaml:"timestamp"`
}

type importFile struct {
	Users      []importUser       `yaml:"users"`
	Attendance []importAttendance `yaml:"attendance"`
}

func newImportBar(count int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(count,
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

func importUsers(ctx context.Context, registrar *identity.Registrar, users []importUser, skipExisting bool) error {
	if len(users) == 0 {
		return nil
	}

	bar := newImportBar(len(users), "Registering users")
	registered, skipped := 0, 0
	for _, u := range users {
		_, err := registrar.Register(ctx, u.Name, u.NationalID, u.Descriptor)
		switch {
		case err == nil:
			registered++
		case errors.Is(err, identity.ErrAlreadyRegistered) && skipExisting:
			skipped++
		default:
			fmt.Println()
			return fmt.Errorf("registering %q: %w", u.Name, err)
		}
		_ = bar.Add(1)
	}
	fmt.Printf("\nRegistered %d users (%d skipped)\n", registered, skipped)
	return nil
}

func importRecords(ctx context.Context, service *attendance.Service, entries []importAttendance) error {
	if len(entries) == 0 {
		return nil
	}

	bar := newImportBar(len(entries), "Marking attendance")
	marked, duplicates := 0, 0
	for i, e := range entries {
		sel, ok := identity.NewSelector(e.UserID, e.NationalID)
		if !ok {
			fmt.Println()
			return fmt.Errorf("attendance entry %d: userId or nationalId is required", i+1)
		}

		at := time.Now()
		if e.Timestamp != "" {
			ts, err := time.Parse(time.RFC3339, e.Timestamp)
			if err != nil {
				fmt.Println()
				return fmt.Errorf("attendance entry %d: invalid timestamp %q: %w", i+1, e.Timestamp, err)
			}
			at = ts
		}

		result, err := service.MarkAt(ctx, sel, at)
		if err != nil {
			fmt.Println()
			return fmt.Errorf("attendance entry %d: %w", i+1, err)
		}
		if result.AlreadyMarked {
			duplicates++
		} else {
			marked++
		}
		_ = bar.Add(1)
	}
	fmt.Printf("\nMarked %d records (%d already present)\n", marked, duplicates)
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var file importFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}
	if len(file.Users) == 0 && len(file.Attendance) == 0 {
		return errors.New("nothing to import: file has no users and no attendance entries")
	}

	cfg := config.Load()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	users := postgres.NewUserRepository(pool)
	records := postgres.NewAttendanceRepository(pool)
	registrar := identity.NewRegistrar(users)
	service := attendance.NewService(identity.NewResolver(users), records)

	ctx := context.Background()
	skipExisting := mustGetBool(cmd, "skip-existing")

	if err := importUsers(ctx, registrar, file.Users, skipExisting); err != nil {
		return err
	}
	return importRecords(ctx, service, file.Attendance)
}
