package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-attend/internal/config"
	"github.com/kozaktomas/face-attend/internal/database/postgres"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "List attendance records",
	Long:  `Retrieves and displays attendance records, newest first.`,
	RunE:  runAttendance,
}

func init() {
	rootCmd.AddCommand(attendanceCmd)

	attendanceCmd.Flags().String("day", "", "Only show records for the given day (YYYY-MM-DD)")
}

func runAttendance(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	day := mustGetString(cmd, "day")

	records, err := postgres.NewAttendanceRepository(pool).ListWithUsers(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list attendance: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DAY\tTIME\tNAME\tNATIONAL ID")
	fmt.Fprintln(w, "---\t----\t----\t-----------")

	shown := 0
	for i := range records {
		if day != "" && records[i].Day != day {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			records[i].Day, records[i].Timestamp.Format("15:04:05"),
			records[i].User.Name, records[i].User.NationalID)
		shown++
	}

	w.Flush()

	if shown == 0 {
		fmt.Println("No attendance records found.")
		return nil
	}
	fmt.Printf("\nTotal: %d records\n", shown)

	return nil
}
