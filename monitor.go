package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	gomidi "gitlab.com/gomidi/midi/v2"

	"go-surface/midi"
	"go-surface/surface"
	"go-surface/theme"
)

var monitorIn string

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Print decoded frames from the controller",
	Long: `Open the controller's input port and print every frame as the engine would
decode it, with the strip role it addresses.`,
	RunE: runMonitor,
}

func init() {
	monitorCmd.Flags().StringVar(&monitorIn, "in", "", "input port name (overrides config)")
	rootCmd.AddCommand(monitorCmd)
}

func runMonitor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	in := cfg.Controller.InputPort
	if monitorIn != "" {
		in = monitorIn
	}
	class, err := surface.ParseClass(cfg.Controller.Class)
	if err != nil {
		return err
	}

	th := theme.New(nil)
	if cfg.Monitor.Palette != "" {
		p, err := theme.LoadGPL(cfg.Monitor.Palette)
		if err != nil {
			return err
		}
		th = theme.New(p)
	}

	port, err := midi.OpenPort(in, "")
	if err != nil {
		return errors.Wrap(err, "open controller")
	}
	defer gomidi.CloseDriver()
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	mon := &monitor{out: os.Stdout, theme: th, class: class, layout: layoutFor(class)}
	fmt.Fprintf(mon.out, "monitoring %s as %s, ctrl-c to stop\n", port.ID(), class)
	for {
		select {
		case <-ctx.Done():
			return nil
		case frame, ok := <-port.Frames():
			if !ok {
				return nil
			}
			mon.print(frame)
		}
	}
}

func layoutFor(class surface.Class) *surface.AddressMap {
	if class == surface.ClassUC4 {
		return surface.UC4Layout()
	}
	return surface.LV3Layout()
}

type monitor struct {
	out    io.Writer
	theme  *theme.Theme
	class  surface.Class
	layout *surface.AddressMap
}

func (m *monitor) print(frame []byte) {
	ev := midi.Decode(frame)
	th := m.theme
	if ev.Kind == midi.Unhandled {
		fmt.Fprintln(m.out, th.Warning().Render(fmt.Sprintf("unhandled % X", frame)))
		return
	}

	kind := th.CC()
	if ev.Kind != midi.ControlChange {
		kind = th.Note()
	}
	fmt.Fprintf(m.out, "%s %s %3d %3d %s %s\n",
		kind.Render(fmt.Sprintf("%-8s", ev.Kind)),
		th.Muted().Render(fmt.Sprintf("ch%-2d", ev.Channel)),
		ev.Data1, ev.Data2,
		th.Bar(ev.Data2, 16),
		th.Muted().Render(m.role(ev)),
	)
}

// role names the strip an event addresses
func (m *monitor) role(ev midi.Event) string {
	candidates := []surface.Address{
		{Channel: ev.Channel, Strip: 0},
		{Channel: ev.Channel, Strip: surface.NoStrip},
	}
	if m.class == surface.ClassUC4 {
		// strip notes end at 56 and strip CCs at 64; above that a bank
		// channel is the global or selected strip
		candidates = []surface.Address{{Channel: ev.Channel, Strip: surface.NoStrip}}
		limit := uint8(56)
		if ev.Kind == midi.ControlChange {
			limit = 64
		}
		if ev.Data1 < limit {
			candidates = []surface.Address{{Channel: ev.Channel, Strip: int(ev.Data1 % 8)}}
		}
	}
	for _, a := range candidates {
		if r, ok := m.layout.Role(a); ok {
			return r.String()
		}
	}
	return ""
}
