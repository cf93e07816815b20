// Package cli implements the vgen command.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-vgenform/internal/config"
	"github.com/goliatone/go-vgenform/pkg/form"
	"github.com/goliatone/go-vgenform/pkg/model"
	"github.com/goliatone/go-vgenform/pkg/task"
	"github.com/goliatone/go-vgenform/pkg/visibility"
	"github.com/goliatone/go-vgenform/pkg/visibility/ruleset"
)

var Version = "dev"

// app carries state shared by the subcommands of one invocation.
type app struct {
	envFiles []string
	logLevel string

	cfg    *config.Config
	logger *slog.Logger
	redis  *redis.Client
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:               "vgen",
		Short:             "Resolve, render and submit the video generation form",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(*cobra.Command, []string) { a.close() },
	}
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "env files to load (default .env)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level, overrides VGEN_LOG_LEVEL")

	root.AddCommand(
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, args []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "vgen %s\n", Version)
			},
		},
		newResolveCmd(a),
		newRenderCmd(a),
		newRunCmd(a),
	)
	return root
}

// Execute runs the root command with os.Args. Interrupts cancel the context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return NewRootCmd().ExecuteContext(ctx)
}

func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.envFiles...)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		level, err := config.ParseLevel(a.logLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	return nil
}

func (a *app) close() {
	if a.redis != nil {
		_ = a.redis.Close()
		a.redis = nil
	}
}

// redisClient connects on first use and reuses the client afterwards.
func (a *app) redisClient(ctx context.Context) (*redis.Client, error) {
	if a.redis != nil {
		return a.redis, nil
	}
	client, err := task.Connect(ctx, a.cfg.Redis())
	if err != nil {
		return nil, err
	}
	a.logger.DebugContext(ctx, "redis connected", "addr", a.cfg.RedisAddr, "db", a.cfg.RedisDB)
	a.redis = client
	return client, nil
}

// resolver applies VGEN_RULES_FILE on top of the built-in table.
func (a *app) resolver() (*visibility.Resolver, error) {
	path := a.cfg.RulesFile
	if path == "" {
		return visibility.New(), nil
	}
	set, err := loadRules(path)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("rules loaded", "path", path, "rules", len(set.Rules))
	return visibility.New(set.Options()...), nil
}

func loadRules(path string) (ruleset.Set, error) {
	info, err := os.Stat(path)
	if err != nil {
		return ruleset.Set{}, fmt.Errorf("cli: rules: %w", err)
	}
	if info.IsDir() {
		return ruleset.LoadFS(os.DirFS(path))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return ruleset.Set{}, fmt.Errorf("cli: rules: %w", err)
	}
	return ruleset.Parse(data, path)
}

// draftStore picks the draft seed: an explicit path, then VGEN_DRAFT_FILE,
// then VGEN_DRAFT_KEY in Redis. Nil means an empty form.
func (a *app) draftStore(ctx context.Context, path string) (form.DraftStore, error) {
	if path == "" {
		path = a.cfg.DraftFile
	}
	if path != "" {
		return form.NewFileDraftStore(path), nil
	}
	if a.cfg.DraftKey == "" {
		return nil, nil
	}
	client, err := a.redisClient(ctx)
	if err != nil {
		return nil, err
	}
	return form.NewRedisDraftStore(client, a.cfg.DraftKey), nil
}

// ratioOptions reads ratio sets from the active rules so the validator agrees
// with what the form offers.
func ratioOptions(resolver *visibility.Resolver) func(model.Model) []model.Option {
	return func(m model.Model) []model.Option {
		rule, _ := resolver.Rule(m)
		return rule.RatioOptions
	}
}
