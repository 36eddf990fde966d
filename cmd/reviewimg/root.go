package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/spf13/cobra"

	"reviewimg/pkg/batch"
	"reviewimg/pkg/config"
	errs "reviewimg/pkg/errors"
	"reviewimg/pkg/logger"
	"reviewimg/pkg/metrics"
	"reviewimg/pkg/ui"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"
)

// newRootCmd builds the command tree
func newRootCmd() *cobra.Command {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:   "reviewimg [export.json] [output-dir]",
		Short: "Download the images referenced by a shop review export",
		Long: `reviewimg reads a JSON export of shop reviews and downloads every unique
image it references, rewritten to its canonical resolution.

Arguments:
  export.json   review export to read (default reviews.json)
  output-dir    base folder for downloads (default ./downloads)

Images are sorted into one folder per category. Only the reviews category
is enabled by default; set REVIEWIMG_CATEGORIES=reviews,products,content
to fetch product and content images as well.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, args, logLevel)
			if err != nil {
				return err
			}
			if err := logger.Initialize(&cfg.Logging); err != nil {
				return errs.Wrap(errs.ErrorTypeConfig, err, "failed to initialize logger")
			}

			console := consoleFor(cmd.OutOrStdout())
			console.PrintBanner()
			return runCategories(cfg, console)
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.SetVersionTemplate(`reviewimg {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(newConfigCmd(&logLevel))
	return rootCmd
}

// loadConfig resolves configuration with the positional arguments and the
// --log-level flag on top
func loadConfig(cmd *cobra.Command, args []string, logLevel string) (*config.Config, error) {
	flags := make(map[string]interface{})
	if len(args) > 0 {
		flags["input"] = args[0]
	}
	if len(args) > 1 {
		flags["output"] = args[1]
	}
	if cmd.Flags().Changed("log-level") {
		flags["log-level"] = logLevel
	}
	return config.Load(flags)
}

// consoleFor colours output only when w is a terminal
func consoleFor(w io.Writer) *ui.Console {
	if f, ok := w.(*os.File); ok {
		return ui.NewConsole(f)
	}
	return ui.NewPlainConsole(w)
}

// runCategories processes every enabled category in order. Input errors end
// only their own category; schema and filesystem errors stop the run.
func runCategories(cfg *config.Config, console *ui.Console) error {
	log := logger.GetLogger()
	m := metrics.New()

	p := batch.New(cfg)
	p.SetConsole(console)
	p.SetMetrics(m)

	logger.LogComponentStart("batch", map[string]interface{}{
		"input":  cfg.Input.Path,
		"output": cfg.Output.BaseDirectory,
	})

	var runErr error
	for _, cat := range cfg.EnabledCategories() {
		console.PrintSection(cat.Name, cfg.Input.Path, cfg.CategoryDir(cat))

		if _, err := p.Run(cat); err != nil {
			if errs.IsFatal(err) {
				runErr = err
				break
			}
			log.WithField("category", cat.Name).WithError(err).Warn("Category aborted")
			console.PrintWarning("Skipping " + cat.Name + ": " + err.Error())
		}
	}

	if err := m.WriteTextfile(cfg.Metrics.TextFile); err != nil {
		log.WithError(err).Warn("Failed to write metrics")
	}

	reason := "completed"
	if runErr != nil {
		reason = "failed"
	}
	logger.LogComponentStop("batch", reason)
	return runErr
}

// Execute runs the root command and exits 1 on any returned error
func Execute() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		logger.WithError(err).Error("reviewimg failed")
		ui.PrintError("Error", err)
		os.Exit(1)
	}
}
