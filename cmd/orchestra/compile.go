package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/phanxgames/orchestra"
)

var compileFlags struct {
	format string
}

var compileCmd = &cobra.Command{
	Use:   "compile FILE",
	Short: "Compile a timeline document and print its clips",
	Long: `Compile a timeline document and print every field's clip list.

Examples:
  # Human-readable clip listing
  orchestra compile timeline.yaml

  # Machine-readable output
  orchestra compile timeline.yaml --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVar(&compileFlags.format, "format", "text", "output format: text, json")
}

func runCompile(cmd *cobra.Command, args []string) error {
	store, err := loadStore(args[0], newLogger())
	if err != nil {
		return err
	}
	switch compileFlags.format {
	case "json":
		return printClipsJSON(cmd.OutOrStdout(), store)
	case "text":
		printClips(cmd.OutOrStdout(), store)
		return nil
	default:
		return fmt.Errorf("unsupported format: %s", compileFlags.format)
	}
}

// printClips writes one block per object with one line per clip.
func printClips(w io.Writer, store *orchestra.ClipStore) {
	kf := store.Keyframes()
	fmt.Fprintf(w, "length: %g, clips: %d\n", store.TotalLength(), kf.NumClips())
	for _, id := range store.Objects() {
		oc, _ := kf.Object(id)
		fmt.Fprintf(w, "\n%s\n", id)
		for _, field := range oc.Fields {
			clips := oc.Clips[field]
			if len(clips) == 0 {
				fmt.Fprintf(w, "  %s: (static)\n", field)
				continue
			}
			fmt.Fprintf(w, "  %s:\n", field)
			for _, c := range clips {
				fmt.Fprintf(w, "    [%g -> %g] %v -> %v (%s", c.Start.Time, c.End.Time, c.Start.Value, c.End.Value, c.Config.Easing)
				if c.Config.Steps > 0 {
					fmt.Fprintf(w, ", %d steps", c.Config.Steps)
				}
				fmt.Fprintln(w, ")")
			}
		}
	}
}

type clipJSON struct {
	Start  float64 `json:"start"`
	End    float64 `json:"end"`
	From   any     `json:"from"`
	To     any     `json:"to"`
	Easing string  `json:"easing"`
	Steps  int     `json:"steps,omitempty"`
}

// fieldJSON keeps fields in base-state order, which a JSON object would not.
type fieldJSON struct {
	Field string     `json:"field"`
	Clips []clipJSON `json:"clips"`
}

type objectJSON struct {
	ID     string      `json:"id"`
	Fields []fieldJSON `json:"fields"`
}

func printClipsJSON(w io.Writer, store *orchestra.ClipStore) error {
	out := struct {
		Length  float64      `json:"length"`
		Objects []objectJSON `json:"objects"`
	}{Length: store.TotalLength()}

	kf := store.Keyframes()
	for _, id := range store.Objects() {
		oc, _ := kf.Object(id)
		obj := objectJSON{ID: id, Fields: make([]fieldJSON, 0, len(oc.Fields))}
		for _, field := range oc.Fields {
			clips := make([]clipJSON, 0, len(oc.Clips[field]))
			for _, c := range oc.Clips[field] {
				clips = append(clips, clipJSON{
					Start:  c.Start.Time,
					End:    c.End.Time,
					From:   c.Start.Value,
					To:     c.End.Value,
					Easing: c.Config.Easing,
					Steps:  c.Config.Steps,
				})
			}
			obj.Fields = append(obj.Fields, fieldJSON{Field: field, Clips: clips})
		}
		out.Objects = append(out.Objects, obj)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
