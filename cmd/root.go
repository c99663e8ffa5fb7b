package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/agenda/app"
	"github.com/kilianp07/agenda/config"
	"github.com/kilianp07/agenda/infra/logger"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:   "agenda",
	Short: "Meeting scheduling engine for multi-track events",
	RunE:  runSchedule,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

// newService builds the service and a signal-aware context shared by all
// subcommands.
func newService() (*app.Service, context.Context, context.CancelFunc, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		stop()
		return nil, nil, nil, fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		stop()
		return nil, nil, nil, err
	}
	svc.ServeMetrics(ctx)
	return svc, ctx, stop, nil
}

func closeService(svc *app.Service) {
	if err := svc.Close(); err != nil {
		logger.New("main").Errorf("service close: %v", err)
	}
}
