package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"go-surface/config"
	"go-surface/debug"
)

var (
	configPath string
	debugLog   bool
	logPath    string
)

var rootCmd = &cobra.Command{
	Use:   "go-surface",
	Short: "Bridge a MIDI control surface to a mixing session",
	Long: `go-surface keeps a fixed-layout MIDI controller (LV3 or UC4 class) in sync
with a mixing session: mixer and rack parameters are bound to the strips in
view, and every change on either side is mirrored to the other.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if !debugLog {
			return nil
		}
		return debug.Enable(logPath)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default ~/.config/go-surface/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&logPath, "log", "", "debug log file (default stderr)")
}

// loadConfig reads --config or the default location, and enables logging
// when the file asks for it
func loadConfig() (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if cfg.Log.Debug && !debug.Enabled() {
		if err := debug.Enable(cfg.Log.Path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

func main() {
	defer debug.Disable()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
