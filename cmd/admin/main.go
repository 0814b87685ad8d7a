package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/delegasi/delegation-manager/internal/log"
	"github.com/delegasi/delegation-manager/pkg/config"
	"github.com/delegasi/delegation-manager/pkg/division"
	"github.com/delegasi/delegation-manager/pkg/event"
	"github.com/delegasi/delegation-manager/pkg/seed"
	"github.com/delegasi/delegation-manager/pkg/storage"
	"github.com/delegasi/delegation-manager/pkg/user"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "admin",
		Short: "Administer the delegation manager database",
		Long: `admin migrates and seeds the database configured through the same environment variables
the delegation manager service reads. It also prints the event workflow.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(createAdminCmd())
	rootCmd.AddCommand(transitionsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, color.RedString("Error: %v", err))
		os.Exit(1)
	}
}

func openDatabase() (*gorm.DB, error) {
	cfg := config.ProvideConfig()
	logger := slog.New(log.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn})))
	return storage.NewDatabase(logger, cfg.Database)
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// the schema is migrated when the database is opened
			if _, err := openDatabase(); err != nil {
				return err
			}

			fmt.Println(color.GreenString("✓"), "Database migrated")
			return nil
		},
	}
}

func seedCmd() *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed divisions and users from a YAML file",
		Long: `Seed divisions and users from a YAML file. Users which already exist are skipped so a file
can be applied repeatedly.

Examples:
  admin seed -f seed.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(path)
			if err != nil {
				return fmt.Errorf("failed to open seed file: %v", err)
			}
			defer f.Close()

			file, err := seed.Load(f)
			if err != nil {
				return err
			}

			db, err := openDatabase()
			if err != nil {
				return err
			}
			divisionService := division.NewService(division.NewRepository(db))
			userService := user.NewService(user.NewRepository(db), divisionService)

			summary, err := seed.Apply(cmd.Context(), file, divisionService, userService)
			if err != nil {
				return err
			}

			fmt.Println(color.GreenString("✓"), "Seeded", summary.Divisions, "divisions")
			fmt.Println(color.GreenString("✓"), "Created", summary.UsersCreated, "users")
			if summary.UsersSkipped > 0 {
				fmt.Println(color.YellowString("-"), "Skipped", summary.UsersSkipped, "existing users")
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&path, "file", "f", "seed.yaml", "seed file")

	return cmd
}

func createAdminCmd() *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Ensure an admin user exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openDatabase()
			if err != nil {
				return err
			}
			userService := user.NewService(user.NewRepository(db), division.NewService(division.NewRepository(db)))

			err = user.CreateAdminUser(cmd.Context(), email, password, userService)
			if err != nil {
				return err
			}

			fmt.Println(color.GreenString("✓"), "Admin user", email, "is ready")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "email of the admin user")
	cmd.Flags().StringVar(&password, "password", "", "password used if the admin user is created")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")

	return cmd
}

func transitionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "transitions",
		Short: "Print the event transitions and the nominal workflow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			bold := color.New(color.Bold)

			_, _ = bold.Println("Transitions")
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "KIND\tTARGET\tEFFECT")
			for _, transition := range event.Transitions {
				fmt.Fprintf(w, "%s\t%s\t%s\n", transition.Kind, transition.Target, transition.Effect)
			}
			if err := w.Flush(); err != nil {
				return err
			}

			statuses, err := event.Statuses()
			if err != nil {
				return err
			}

			fmt.Println()
			_, _ = bold.Println("Workflow")
			w = tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "STATUS\tNEXT")
			for _, status := range statuses {
				next := make([]string, len(status.Next))
				for i, kind := range status.Next {
					next[i] = string(kind)
				}
				label := string(status.Status)
				if status.Terminal {
					label = color.CyanString("%s (terminal)", label)
				}
				fmt.Fprintf(w, "%s\t%s\n", label, strings.Join(next, ", "))
			}
			return w.Flush()
		},
	}
}
