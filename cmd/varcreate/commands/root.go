package commands

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tjmonk/varcreate/internal/config"
	"github.com/tjmonk/varcreate/internal/printer"
	"github.com/tjmonk/varcreate/pkg/varcreate"
	"github.com/tjmonk/varcreate/pkg/varserver"
)

var (
	version string
	commit  string
	date    string
)

var (
	rootVerbose      bool
	rootInstanceID   uint32
	rootPrefix       string
	rootFlagSpec     string
	rootDirMode      bool
	rootForceDefault bool
	rootServerURL    string
	rootConfigPath   string
)

// rootCmd represents the varcreate command
var rootCmd = &cobra.Command{
	Use:   "varcreate [flags] <path>",
	Short: "Varcreate - Batch variable creation for the variable server",
	Long: `Varcreate reads declarative JSON variable definitions and registers
them with a running variable server.

Each definition names a variable and may set its type, default value,
format, length, tags, flags, permissions, and aliases. With --dir the
path is a directory and every .json file in it is processed.

The server address is taken from --server, then varcreate.yml, then the
VARSERVER_URL environment variable, then redis://localhost:6379.`,
	Args:    cobra.ExactArgs(1),
	Version: version,
	RunE:    runCreate,
	// Enable strict flag parsing - unknown flags will cause an error
	FParseErrWhitelist: cobra.FParseErrWhitelist{},
}

// Execute runs the root command. This is called by main.main().
func Execute() error {
	// Silence Cobra's default error and usage printing
	// We print formatted colored errors directly in the printer package
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.Flags().BoolVarP(&rootVerbose, "verbose", "v", false, "Log each file and record as it is processed")
	rootCmd.Flags().Uint32VarP(&rootInstanceID, "instance", "i", 0, "Instance ID stamped on every variable")
	rootCmd.Flags().StringVarP(&rootPrefix, "prefix", "p", "", "Prefix prepended to every variable name")
	rootCmd.Flags().StringVarP(&rootFlagSpec, "flags", "f", "", "Flags unioned into every variable (comma or | separated)")
	rootCmd.Flags().BoolVarP(&rootDirMode, "dir", "d", false, "Treat <path> as a directory of .json files")
	rootCmd.Flags().BoolVarP(&rootForceDefault, "force-default", "z", false, "Overwrite the value of variables that already exist")
	rootCmd.Flags().StringVar(&rootServerURL, "server", "", "Variable server URL (redis://host:port)")
	rootCmd.Flags().StringVar(&rootConfigPath, "config", "", "Tool configuration file (default: ./"+config.DefaultFileName+")")
}

func runCreate(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	path := args[0]

	cfg, err := loadToolConfig(rootConfigPath)
	if err != nil {
		return printer.Error(
			"cannot load configuration",
			err.Error(),
			[]string{fmt.Sprintf("Check the file:\n  cat %s", rootConfigPath)},
		)
	}

	opts := &varcreate.Options{
		Verbose:      rootVerbose,
		InstanceID:   rootInstanceID,
		Prefix:       rootPrefix,
		ForceDefault: rootForceDefault,
	}

	if rootFlagSpec != "" {
		flags, err := varserver.StrToFlags(rootFlagSpec)
		if err != nil {
			return printer.Error(
				"invalid flag specifier",
				fmt.Sprintf("Cannot parse --flags value %q: %v", rootFlagSpec, err),
				[]string{"Valid flag names are:\n  " + strings.Join(varserver.FlagNames(), ", ")},
			)
		}
		opts.Flags = flags
	}

	applyConfigDefaults(opts, cmd.Flags().Changed, cfg)

	serverURL := resolveServerURL(rootServerURL, cfg)

	if opts.Verbose {
		printer.Info("server: %s\n", serverURL)
	}

	srv, err := varserver.Open(serverURL)
	if err != nil {
		return printer.ErrorWithContext(
			"invalid server URL",
			err.Error(),
			map[string]string{"Server": serverURL},
			[]string{"Use a redis:// URL:\n  varcreate --server redis://localhost:6379 vars.json"},
		)
	}
	defer srv.Close()

	if err := srv.Ping(ctx); err != nil {
		return printer.ErrorWithContext(
			"cannot reach the variable server",
			err.Error(),
			map[string]string{"Server": serverURL},
			[]string{
				"Check that the variable server is running",
				"Point at another server:\n  varcreate --server redis://host:6379 " + path,
			},
		)
	}

	if opts.Verbose {
		printer.Step("processing %s\n", path)
	}

	if rootDirMode {
		err = varcreate.CreateFromDir(ctx, srv, path, opts)
	} else {
		err = varcreate.CreateFromFile(ctx, srv, path, opts)
	}
	if err != nil {
		suggestions := []string{"Re-run with --verbose for per-record detail"}
		if varserver.IsExists(err) {
			suggestions = append(suggestions,
				"Overwrite the values of existing variables instead:\n  varcreate --force-default "+path)
		}
		return printer.Error("variable creation failed", err.Error(), suggestions)
	}

	printer.Success("variables created from %s\n", path)
	return nil
}

// loadToolConfig loads --config when given, otherwise the default
// varcreate.yml if one exists in the working directory. A broken explicit
// file is fatal; a broken default file is reported and skipped.
func loadToolConfig(path string) (*config.ToolConfig, error) {
	if path != "" {
		return config.Load(path)
	}

	if _, err := os.Stat(config.DefaultFileName); err != nil {
		return nil, nil
	}

	cfg, err := config.Load(config.DefaultFileName)
	if err != nil {
		printer.Warning("ignoring %s: %v\n", config.DefaultFileName, err)
		return nil, nil
	}
	return cfg, nil
}

// applyConfigDefaults fills in options the command line left unset.
// changed reports whether the named flag was given explicitly.
func applyConfigDefaults(opts *varcreate.Options, changed func(name string) bool, cfg *config.ToolConfig) {
	if cfg == nil || cfg.Defaults == nil {
		return
	}

	d := cfg.Defaults
	if !changed("instance") && d.Instance != nil {
		opts.InstanceID = *d.Instance
	}
	if !changed("prefix") && d.Prefix != "" {
		opts.Prefix = d.Prefix
	}
	if !changed("verbose") && d.Verbose != nil {
		opts.Verbose = *d.Verbose
	}
	if !changed("flags") {
		opts.Flags = cfg.FlagSet()
	}
}

// resolveServerURL picks the server address: an explicit flag wins, then
// the tool configuration, then the VARSERVER_URL environment variable,
// then the built-in default.
func resolveServerURL(flagValue string, cfg *config.ToolConfig) string {
	if flagValue != "" {
		return flagValue
	}
	if cfg != nil && cfg.Server != nil && cfg.Server.URL != "" {
		return cfg.Server.URL
	}
	if env := os.Getenv("VARSERVER_URL"); env != "" {
		return env
	}
	return config.DefaultServerURL
}
