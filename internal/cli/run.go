package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-vgenform/pkg/form"
	"github.com/goliatone/go-vgenform/pkg/renderers/tui"
	"github.com/goliatone/go-vgenform/pkg/task"
	"github.com/goliatone/go-vgenform/pkg/validation"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		values   string
		locale   string
		messages string
		dryRun   bool
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Fill in the form interactively and queue the video job",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			validator, err := validation.New(ctx, validation.WithRatioOptions(ratioOptions(resolver)))
			if err != nil {
				return err
			}

			var (
				sink   task.Sink
				memory *task.MemoryQueue
			)
			if dryRun {
				memory = task.NewMemoryQueue()
				sink = memory
			} else {
				client, err := a.redisClient(ctx)
				if err != nil {
					return err
				}
				sink = task.NewRedisSink(client,
					task.WithQueueKey(a.cfg.QueueKey),
					task.WithLogger(a.logger),
				)
			}

			if locale == "" {
				locale = a.cfg.Locale
			}
			opts, err := renderOptions(locale, messages)
			if err != nil {
				return err
			}

			driver := tui.NewSurveyDriver(cmd.OutOrStdout())
			controller := form.New(
				form.WithResolver(resolver),
				form.WithValidator(validator),
				form.WithSink(sink),
				form.WithCropWidget(tui.NewCropWidget(driver)),
				form.WithLogger(a.logger),
			)
			store, err := a.draftStore(ctx, values)
			if err != nil {
				return err
			}
			if err := controller.Mount(ctx, store); err != nil {
				return err
			}

			session := tui.NewSession(controller,
				tui.WithPromptDriver(driver),
				tui.WithRenderOptions(opts),
			)
			result, err := session.Run(ctx)
			if errors.Is(err, tui.ErrAborted) {
				a.logger.InfoContext(ctx, "form aborted")
				return nil
			}
			if err != nil {
				return err
			}
			if !result.Submitted {
				return nil
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "queued task %s\n", result.Task.ID)
			if memory != nil {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result.Payload); err != nil {
					return fmt.Errorf("cli: encode payload: %w", err)
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&values, "values", "", "draft file (YAML or JSON), overrides VGEN_DRAFT_FILE")
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "locale, overrides VGEN_LOCALE")
	cmd.Flags().StringVar(&messages, "messages", "", "message catalogue (YAML, locale -> key -> text)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep the job in memory and print the payload instead of queueing it")
	return cmd
}
