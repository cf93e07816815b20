package cli

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-vgenform/pkg/model"
)

type resolveFlags struct {
	model     string
	prompt    string
	kind      string
	duration  string
	firstFile string
	lastFile  string
}

func newResolveCmd(a *app) *cobra.Command {
	var flags resolveFlags
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Print the visible fields and derived state for a set of values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			res := resolver.Resolve(flags.values())

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(res); err != nil {
				return fmt.Errorf("cli: encode resolution: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&flags.model, "model", "m", "", "generation model")
	cmd.Flags().StringVarP(&flags.prompt, "prompt", "p", "", "prompt text")
	cmd.Flags().StringVarP(&flags.kind, "type", "t", "", "generation type (standard, fast)")
	cmd.Flags().StringVar(&flags.duration, "time", "", "clip duration (5s, 10s)")
	cmd.Flags().StringVar(&flags.firstFile, "first-file", "", "first reference image")
	cmd.Flags().StringVar(&flags.lastFile, "last-file", "", "last reference image")
	return cmd
}

// values builds form values from flags. Files are referenced by name only; the
// resolver never looks inside them.
func (f resolveFlags) values() model.FormValues {
	return model.FormValues{
		Model:     model.Model(strings.TrimSpace(f.model)),
		Prompt:    f.prompt,
		Type:      f.kind,
		Time:      f.duration,
		FirstFile: namedFile(f.firstFile),
		LastFile:  namedFile(f.lastFile),
	}
}

func namedFile(path string) *model.FileHandle {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return &model.FileHandle{Name: filepath.Base(path), Ref: path}
}
