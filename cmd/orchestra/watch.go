package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/phanxgames/orchestra"
)

var watchFlags struct {
	debounce time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch FILE",
	Short: "Recompile a timeline document whenever it changes",
	Long: `Watch a timeline document and print its clips after every successful
recompile. Compile errors are reported and the previous result is kept.
Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 100*time.Millisecond, "quiet period before reloading")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger()
	out := cmd.OutOrStdout()
	w, err := orchestra.NewWatcher(orchestra.WatcherConfig{
		Path:     args[0],
		Fields:   orchestra.DefaultFields(),
		Options:  compileOptions(logger),
		Debounce: watchFlags.debounce,
		OnReload: func(store *orchestra.ClipStore) {
			fmt.Fprintf(out, "--- %s\n", time.Now().Format(time.TimeOnly))
			printClips(out, store)
		},
		OnError: func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "✗ %v\n", err)
		},
		Logger: logger,
	})
	if err != nil {
		return err
	}
	return w.Watch(ctx)
}
