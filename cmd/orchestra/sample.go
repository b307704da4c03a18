package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var sampleFlags struct {
	object string
	field  string
	at     []float64
}

var sampleCmd = &cobra.Command{
	Use:   "sample FILE",
	Short: "Evaluate a field at one or more times",
	Long: `Evaluate one field of one object at the given times.

Examples:
  orchestra sample timeline.yaml --object cube --field alpha --at 0,0.5,1`,
	Args: cobra.ExactArgs(1),
	RunE: runSample,
}

func init() {
	rootCmd.AddCommand(sampleCmd)

	sampleCmd.Flags().StringVar(&sampleFlags.object, "object", "", "object id (required)")
	sampleCmd.Flags().StringVar(&sampleFlags.field, "field", "", "field id (required)")
	sampleCmd.Flags().Float64SliceVar(&sampleFlags.at, "at", []float64{0}, "times to evaluate")
	_ = sampleCmd.MarkFlagRequired("object")
	_ = sampleCmd.MarkFlagRequired("field")
}

func runSample(cmd *cobra.Command, args []string) error {
	store, err := loadStore(args[0], newLogger())
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	for _, t := range sampleFlags.at {
		v, err := store.Evaluate(sampleFlags.object, sampleFlags.field, t)
		if err != nil {
			return err
		}
		smp, err := store.Sample(sampleFlags.object, sampleFlags.field, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "t=%g\t%v\tclip=%d progress=%.3f\n", t, v, smp.Index, smp.Progress)
	}
	return nil
}
