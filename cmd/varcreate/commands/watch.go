package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/tjmonk/varcreate/internal/config"
	"github.com/tjmonk/varcreate/internal/printer"
	"github.com/tjmonk/varcreate/internal/watch"
	"github.com/tjmonk/varcreate/pkg/varserver"
)

var (
	watchInstanceID uint32
	watchAll        bool
	watchWaitFor    string
	watchTimeout    time.Duration
	watchServerURL  string
	watchConfigPath string
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Stream variable creation events from the server",
	Long: `Stream variable creation events from the variable server as they
happen, one line per event. Press Ctrl+C to stop.

With --wait-for, block until the named variable exists instead:

  # Hold a startup script until another component registers its variables
  varcreate watch --wait-for sys.device.ready --timeout 30s`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Uint32VarP(&watchInstanceID, "instance", "i", 0, "Only show events for this instance ID")
	watchCmd.Flags().BoolVar(&watchAll, "all", false, "Show events from every instance")
	watchCmd.Flags().StringVar(&watchWaitFor, "wait-for", "", "Block until this variable exists, then exit")
	watchCmd.Flags().DurationVar(&watchTimeout, "timeout", 30*time.Second, "Give up on --wait-for after this long")
	watchCmd.Flags().StringVar(&watchServerURL, "server", "", "Variable server URL (redis://host:port)")
	watchCmd.Flags().StringVar(&watchConfigPath, "config", "", "Tool configuration file (default: ./"+config.DefaultFileName+")")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Stop streaming on SIGINT and SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()

	cfg, err := loadToolConfig(watchConfigPath)
	if err != nil {
		return printer.Error("cannot load configuration", err.Error(), nil)
	}

	serverURL := resolveServerURL(watchServerURL, cfg)

	srv, err := varserver.Open(serverURL)
	if err != nil {
		return printer.ErrorWithContext(
			"invalid server URL",
			err.Error(),
			map[string]string{"Server": serverURL},
			[]string{"Use a redis:// URL:\n  varcreate watch --server redis://localhost:6379"},
		)
	}
	defer srv.Close()

	if err := srv.Ping(ctx); err != nil {
		return printer.ErrorWithContext(
			"cannot reach the variable server",
			err.Error(),
			map[string]string{"Server": serverURL},
			[]string{"Check that the variable server is running"},
		)
	}

	if watchWaitFor != "" {
		h, err := watch.WaitForVar(ctx, srv, watchInstanceID, watchWaitFor, watchTimeout)
		if err != nil {
			return printer.Error(
				"variable did not appear",
				err.Error(),
				[]string{"Allow more time:\n  varcreate watch --wait-for " + watchWaitFor + " --timeout 60s"},
			)
		}
		printer.Success("%s is available (handle %d)\n", watchWaitFor, h)
		return nil
	}

	printer.Info("watching for variable creation events (Ctrl+C to stop)\n")
	if err := watch.StreamEvents(ctx, srv, watchInstanceID, watchAll, os.Stdout); err != nil {
		return printer.Error("event stream failed", err.Error(), nil)
	}
	return nil
}
