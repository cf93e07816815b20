package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-vgenform/pkg/form"
	"github.com/goliatone/go-vgenform/pkg/render"
	"github.com/goliatone/go-vgenform/pkg/renderers/html"
	"github.com/goliatone/go-vgenform/pkg/renderers/tui"
)

func newRenderCmd(a *app) *cobra.Command {
	var (
		values   string
		locale   string
		messages string
		format   string
		accept   string
		action   string
	)
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render the form seeded from a draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			registry, err := renderers()
			if err != nil {
				return err
			}
			renderer, err := registry.Get(format)
			if accept != "" {
				renderer, err = registry.Negotiate(accept, format)
			}
			if err != nil {
				return err
			}

			resolver, err := a.resolver()
			if err != nil {
				return err
			}
			controller := form.New(form.WithResolver(resolver), form.WithLogger(a.logger))
			store, err := a.draftStore(ctx, values)
			if err != nil {
				return err
			}
			if err := controller.Mount(ctx, store); err != nil {
				return err
			}

			if locale == "" {
				locale = a.cfg.Locale
			}
			opts, err := renderOptions(locale, messages)
			if err != nil {
				return err
			}
			opts.Action = action

			out, err := renderer.Render(ctx, controller.View(), opts)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&values, "values", "", "draft file (YAML or JSON), overrides VGEN_DRAFT_FILE")
	cmd.Flags().StringVarP(&locale, "locale", "l", "", "locale, overrides VGEN_LOCALE")
	cmd.Flags().StringVar(&messages, "messages", "", "message catalogue (YAML, locale -> key -> text)")
	cmd.Flags().StringVarP(&format, "format", "f", "html", "output format: html, json, text")
	cmd.Flags().StringVar(&accept, "accept", "", "media ranges to negotiate the output with, e.g. application/json; --format is the fallback")
	cmd.Flags().StringVar(&action, "action", "", "form action URL")
	return cmd
}

func renderers() (*render.Registry, error) {
	htmlRenderer, err := html.New()
	if err != nil {
		return nil, err
	}
	registry := render.NewRegistry()
	registry.MustRegister(htmlRenderer)
	registry.MustRegister(render.NewJSONRenderer("  "))
	registry.MustRegister(tui.NewTextRenderer())
	return registry, nil
}
