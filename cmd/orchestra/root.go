package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/phanxgames/orchestra"
)

var (
	// Global flags
	verbose bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "orchestra",
	Short: "Orchestra - keyframe timeline compiler",
	Long: `Orchestra compiles sparse keyframe documents (YAML or JSON) into dense,
per-field clip timelines and evaluates them at arbitrary times.

Documents declare the base state of every object and the keyframes that move
it. The default field set animates position, scale, rotation, alpha, color
and visible.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Version is the semantic version (set by build flags)
var Version = "0.1.0"

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "log compile stats")
}

// newLogger returns a stderr text logger honoring --verbose.
func newLogger() *slog.Logger {
	level := slog.LevelWarn
	if verbose || debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// compileOptions returns the Orchestrate options selected by global flags.
func compileOptions(logger *slog.Logger) []orchestra.Option {
	return []orchestra.Option{
		orchestra.WithLogger(logger),
		orchestra.WithDebug(debug),
	}
}

// loadStore reads and compiles a timeline document.
func loadStore(path string, logger *slog.Logger) (*orchestra.ClipStore, error) {
	fields := orchestra.DefaultFields()
	doc, err := orchestra.LoadDocumentFile(path, fields)
	if err != nil {
		return nil, err
	}
	return doc.Orchestrate(fields, compileOptions(logger)...)
}
