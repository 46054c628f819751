package main

import (
	"fmt"

	"github.com/kardianos/service"
	"github.com/spf13/cobra"

	"github.com/flemzord/remindd/pkg/app"
)

// program adapts the daemon loop to the service manager's lifecycle.
type program struct {
	configPath string
	errCh      chan error
}

func (p *program) Start(service.Service) error {
	p.errCh = make(chan error, 1)
	go func() {
		p.errCh <- app.Run(app.RunParams{
			ConfigPath: p.configPath,
			Version:    version,
			Commit:     commit,
			Date:       date,
		})
	}()
	return nil
}

func (p *program) Stop(service.Service) error {
	// app.Run exits on SIGTERM, which the service manager sends before
	// calling Stop. Nothing left to tear down here.
	return nil
}

func serviceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "service <install|uninstall|start|stop|run>",
		Short: "Manage remindd as a system service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgPath, _ := cmd.Flags().GetString("config")

			svcArgs := []string{"service", "run"}
			if cfgPath != "" {
				svcArgs = append(svcArgs, "--config", cfgPath)
			}

			svc, err := service.New(&program{configPath: cfgPath}, &service.Config{
				Name:        "remindd",
				DisplayName: "remindd",
				Description: "Persistent reminder scheduler",
				Arguments:   svcArgs,
			})
			if err != nil {
				return fmt.Errorf("creating service: %w", err)
			}

			action := args[0]
			switch action {
			case "run":
				return svc.Run()
			case "install", "uninstall", "start", "stop", "restart":
				if err := service.Control(svc, action); err != nil {
					return fmt.Errorf("service %s: %w", action, err)
				}
				fmt.Printf("service %s: done\n", action)
				return nil
			default:
				return fmt.Errorf("unknown action %q", action)
			}
		},
	}
	cmd.Flags().StringP("config", "c", "", "Path to configuration file")
	return cmd
}
