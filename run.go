package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-surface/debug"
	"go-surface/host"
	"go-surface/midi"
	"go-surface/surface"
)

var (
	runClass string
	runIn    string
	runOut   string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Bridge the configured controller to the demo session",
	Long: `Open the controller's input and output ports by name and keep it in sync
with the demo session from the config file.

Example:
  go-surface run --class uc4 --in "UC4" --out "UC4"
`,
	RunE: runBridge,
}

func init() {
	runCmd.Flags().StringVar(&runClass, "class", "", "controller class: lv3 or uc4 (overrides config)")
	runCmd.Flags().StringVar(&runIn, "in", "", "input port name (overrides config)")
	runCmd.Flags().StringVar(&runOut, "out", "", "output port name (overrides config)")
	rootCmd.AddCommand(runCmd)
}

func runBridge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if runClass != "" {
		cfg.Controller.Class = runClass
	}
	if runIn != "" {
		cfg.Controller.InputPort = runIn
	}
	if runOut != "" {
		cfg.Controller.OutputPort = runOut
	}

	class, err := surface.ParseClass(cfg.Controller.Class)
	if err != nil {
		return err
	}

	port, err := midi.OpenPort(cfg.Controller.InputPort, cfg.Controller.OutputPort)
	if err != nil {
		return errors.Wrap(err, "open controller")
	}
	defer gomidi.CloseDriver()
	defer port.Close()

	song := buildSession(cfg.Session)
	msgStyle := lipgloss.NewStyle().Bold(true)
	runner, err := host.New(port, song, class, host.WithMessages(func(msg string) {
		fmt.Println(msgStyle.Render(msg))
	}))
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("bridging %s (%s) to %d tracks, ctrl-c to stop\n", port.ID(), class, len(song.Tracks()))
	debug.Fields("main", "bridge started", map[string]any{
		"class":  string(class),
		"in":     cfg.Controller.InputPort,
		"out":    cfg.Controller.OutputPort,
		"tracks": len(song.Tracks()),
	})
	return runner.Run(ctx)
}
