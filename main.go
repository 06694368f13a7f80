// @title Exam Portal API
// @version 1.0
// @description Backend for online exams: enrollment, timed attempts, scoring, re-exams and certificates.

// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"fmt"
	"os"
	"time"

	"exam_portal_backend/internal/app"
	"exam_portal_backend/internal/config"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/util"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "exam-portal",
		Short:        "Online exam backend",
		SilenceUsage: true,
	}
	root.PersistentFlags().String("config", "configs", "Directory containing config.yaml")

	serve := serveCmd()
	root.AddCommand(serve, migrateCmd(), tokenCmd())

	// bare `exam-portal` behaves like `exam-portal serve`
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.ForceMigrate, _ = cmd.Flags().GetBool("migrate")

			application, err := app.NewApp(cfg, dir)
			if err != nil {
				return err
			}
			defer application.Close()
			return application.Run()
		},
	}
	cmd.Flags().Bool("migrate", false, "Run database migrations on startup even in release mode")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			cfg.MigrateOnly = true

			application, err := app.NewApp(cfg, dir)
			if err != nil {
				return err
			}
			application.Close()
			fmt.Fprintln(cmd.OutOrStdout(), "database migrated")
			return nil
		},
	}
}

// tokenCmd issues a signed token with the configured secret, for local use
// against a running server.
func tokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "token <user-id>",
		Short: "Issue an access token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			role, _ := cmd.Flags().GetString("role")
			email, _ := cmd.Flags().GetString("email")
			ttl, _ := cmd.Flags().GetDuration("ttl")

			userRole := model.UserRole(role)
			if userRole != model.RoleStudent && userRole != model.RoleAdmin {
				return fmt.Errorf("unknown role %q", role)
			}

			token, err := util.GenerateJWT(args[0], email, userRole, cfg.JWT.Secret, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	f := cmd.Flags()
	f.String("role", string(model.RoleStudent), "Token role (student, admin)")
	f.String("email", "", "Email claim")
	f.Duration("ttl", 24*time.Hour, "Token lifetime")
	return cmd
}

func loadConfig(cmd *cobra.Command) (string, *config.Config, error) {
	dir, _ := cmd.Flags().GetString("config")
	cfg, err := config.LoadConfig(dir)
	if err != nil {
		return "", nil, fmt.Errorf("load config: %w", err)
	}
	return dir, cfg, nil
}
