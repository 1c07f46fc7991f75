package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/souradeepAsh/Knee-Preop-Planning/internal/config"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/logging"
	"github.com/souradeepAsh/Knee-Preop-Planning/version"
	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
	debug      bool
	quiet      bool

	cfg = config.Default()
)

var rootCmd = &cobra.Command{
	Use:   "kneeplan",
	Short: "Distal femoral resection planning for knee arthroplasty",
	Long: `kneeplan derives the clinical axes and the cascade of femoral reference planes
from anatomical landmarks placed on femur and tibia meshes, and measures the
distal resection depth at the medial and lateral condyles.`,
	Version:       version.GetFullVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}

		level, err := logging.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		logging.Setup(os.Stderr, logging.LevelFromFlags(debug, verbose, quiet, level), cfg.Log.Format)
		slog.Debug("configuration loaded", "path", configPath, "addr", cfg.Server.Addr, "db", cfg.Store.Path)
		return nil
	},
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "config file (default "+config.DefaultPath+" if present)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "log at info level")
	flags.BoolVar(&debug, "vv", false, "log at debug level")
	flags.BoolVarP(&quiet, "quiet", "q", false, "only log errors")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
