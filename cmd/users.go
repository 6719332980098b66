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
	"github.com/kozaktomas/face-attend/internal/identity"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List registered users",
	Long:  `Retrieves and displays all registered users.`,
	RunE:  runUsers,
}

func init() {
	rootCmd.AddCommand(usersCmd)

	usersCmd.Flags().String("search", "", "Filter users by name (diacritic and case insensitive)")
}

func runUsers(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if cfg.Database.URL == "" {
		return errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.Connect(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize PostgreSQL: %w", err)
	}
	defer pool.Close()

	search := mustGetString(cmd, "search")

	users, err := postgres.NewUserRepository(pool).List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tNATIONAL ID\tREGISTERED")
	fmt.Fprintln(w, "--\t----\t-----------\t----------")

	shown := 0
	for i := range users {
		if search != "" && !identity.NameMatches(users[i].Name, search) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			users[i].ID, users[i].Name, users[i].NationalID,
			users[i].CreatedAt.Format("2006-01-02 15:04"))
		shown++
	}

	w.Flush()

	if shown == 0 {
		fmt.Println("No users found.")
		return nil
	}
	fmt.Printf("\nTotal: %d users\n", shown)

	return nil
}
