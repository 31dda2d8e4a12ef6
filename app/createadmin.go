package app

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/chirofind/chirofind/internal/config"
	"github.com/chirofind/chirofind/internal/daemon"
	"github.com/chirofind/chirofind/internal/db/controller/user"
	"github.com/chirofind/chirofind/internal/db/models"
)

func init() { //nolint: gochecknoinits
	createAdminCmd.Flags().StringVar(&configPath, "config", "", "Path to the configuration directory")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Email address for the new admin account")
	createAdminCmd.Flags().StringVar(&adminName, "name", "Administrator", "Display name for the new admin account")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "Password for the new admin account")

	_ = createAdminCmd.MarkFlagRequired("email")
	_ = createAdminCmd.MarkFlagRequired("password")

	rootCmd.AddCommand(createAdminCmd)
}

var (
	adminEmail    string
	adminName     string
	adminPassword string

	createAdminCmd = &cobra.Command{
		Use:   "create-admin",
		Short: "Create an admin account",
		PreRun: func(_ *cobra.Command, _ []string) {
			if cfg, err = config.ReadConfig(configPath); err != nil {
				panic(err)
			}
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			db, err := daemon.OpenDB(&cfg)
			if err != nil {
				return err
			}

			account, err := user.Create(db, adminEmail, adminPassword, adminName, models.RoleAdmin)
			if err != nil {
				return err
			}

			log.Info().Uint64("id", account.ID).Str("email", account.Email).Msg("admin account created")

			return nil
		},
	}
)
