package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"imf-reader/internal/imf"
	"imf-reader/internal/logging"
	"imf-reader/internal/metrics"
	"imf-reader/internal/startup"
	"imf-reader/internal/transport"
)

// errUnhealthy makes verify exit non-zero after printing its report.
var errUnhealthy = errors.New("package verification failed")

// cli carries what the root command resolves before any subcommand runs.
type cli struct {
	cfg *startup.Config
	log *logging.Logger
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	cmd := &cobra.Command{
		Use:           "imfpkg",
		Short:         "Inspect, resolve and verify IMF packages",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return c.setup(cmd)
		},
	}

	flags := cmd.PersistentFlags()
	flags.String("assetmap", "", "asset map location (default: ASSETMAP.xml next to the CPL)")
	flags.StringP("output", "o", "", "output format: table or json (default: table on a terminal)")
	flags.Bool("strict-paths", false, "reject chunk paths that leave the package directory")
	flags.Int64("max-read-size", 0, "maximum CPL or asset map size in bytes")
	flags.Int("max-assets", 0, "maximum number of asset map entries")
	flags.String("log-level", "warn", "log level: debug, info, warn or error")

	cmd.AddCommand(
		newInspectCmd(c),
		newResolveCmd(c),
		newVerifyCmd(c),
		newCatalogCmd(c),
	)
	return cmd
}

func (c *cli) setup(cmd *cobra.Command) error {
	if err := startup.LoadEnvFiles(".env"); err != nil {
		return err
	}
	c.cfg = startup.FromEnv()

	levelName, _ := cmd.Flags().GetString("log-level")
	level, ok := logging.ParseLevel(levelName)
	if !ok {
		return fmt.Errorf("unknown log level %q", levelName)
	}
	logCfg := logging.ConfigFromEnv()
	logCfg.Level = level
	c.log = logging.New(logCfg)

	transport.SetObserver(metrics.NewTransportObserver())

	format, _ := cmd.Flags().GetString("output")
	switch format {
	case "", "table", "json":
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
	return nil
}

// openPackage opens the CPL at url with the command's flags over the
// environment configuration.
func (c *cli) openPackage(cmd *cobra.Command, url string) (*imf.Package, error) {
	flags := cmd.Flags()

	opts := imf.Options{
		AssetMapPath: c.cfg.AssetMapPath,
		MaxReadSize:  c.cfg.MaxReadSize,
		MaxAssets:    c.cfg.MaxAssets,
		StrictPaths:  c.cfg.StrictPaths,
		Transport:    c.cfg.TransportOptions(),
		Logger:       c.log,
	}
	if v, _ := flags.GetString("assetmap"); v != "" {
		opts.AssetMapPath = v
	}
	if flags.Changed("strict-paths") {
		opts.StrictPaths, _ = flags.GetBool("strict-paths")
	}
	if v, _ := flags.GetInt64("max-read-size"); v > 0 {
		opts.MaxReadSize = v
	}
	if v, _ := flags.GetInt("max-assets"); v > 0 {
		opts.MaxAssets = v
	}

	return imf.Open(cmd.Context(), url, opts)
}

// outputFormat returns "json" or "table" from the --output flag, falling
// back to table only when stdout is a terminal.
func outputFormat(cmd *cobra.Command) string {
	if f, _ := cmd.Flags().GetString("output"); f != "" {
		return f
	}
	if term.IsTerminal(int(os.Stdout.Fd())) {
		return "table"
	}
	return "json"
}
