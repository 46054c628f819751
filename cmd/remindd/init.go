package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flemzord/remindd/internal/config"
	"github.com/flemzord/remindd/pkg/app"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create a configuration file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, _ := cmd.Flags().GetString("output")
			if path == "" {
				path = app.DefaultConfigPath()
			}
			force, _ := cmd.Flags().GetBool("force")

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			bind := "127.0.0.1:8420"
			dataPath := "remindd.db"
			logLevel := "info"
			token := ""

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Gateway listen address").
						Description("host:port the HTTP gateway binds to").
						Value(&bind),
					huh.NewInput().
						Title("Database path").
						Description("SQLite file the reminders are stored in").
						Value(&dataPath),
					huh.NewSelect[string]().
						Title("Log level").
						Options(huh.NewOptions("debug", "info", "warn", "error")...).
						Value(&logLevel),
					huh.NewInput().
						Title("API bearer token").
						Description("Leave empty to keep the API open (localhost default)").
						Value(&token),
				),
			)
			if err := form.Run(); err != nil {
				return err
			}

			cfg := config.Config{
				Version:  "1",
				LogLevel: logLevel,
			}
			cfg.Gateway.Bind = bind
			cfg.Gateway.BearerToken = token
			cfg.Data.Path = dataPath

			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return fmt.Errorf("encoding config: %w", err)
			}

			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				return fmt.Errorf("creating config directory: %w", err)
			}
			if err := os.WriteFile(path, data, 0o600); err != nil {
				return fmt.Errorf("writing config: %w", err)
			}

			fmt.Printf("Wrote %s\n", path)
			fmt.Println("Start the daemon with: remindd start")
			return nil
		},
	}
	cmd.Flags().StringP("output", "o", "", "Where to write the config file")
	cmd.Flags().Bool("force", false, "Overwrite an existing config file")
	return cmd
}
