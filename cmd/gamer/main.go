package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"multimodal-gamer/action"
	"multimodal-gamer/config"
	"multimodal-gamer/input"
	"multimodal-gamer/llm"
	"multimodal-gamer/runtimeinit"
	"multimodal-gamer/worker"
)

type cliOptions struct {
	game       string
	model      string
	strategy   string
	apiKeyPath string
	verbose    bool
	dryRun     bool
	maxCycles  int
	interval   time.Duration
}

func main() {
	enableDPIAwareness()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return runWithArgs(ctx, os.Args, os.Stdout)
}

func runWithArgs(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		args = []string{"gamer"}
	}

	opts := &cliOptions{}
	cmd := newRootCmd(opts, out)
	cmd.SetArgs(args[1:])
	return cmd.ExecuteContext(ctx)
}

func newRootCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "gamer",
		Short:         "Play a game by asking a vision model for the next move",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLoop(cmd, *opts)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.game, "game", "", "Game profile (poker, sm64); overrides GAME")
	pf.StringVar(&opts.model, "model", "", "Model name; overrides MODEL")
	pf.StringVar(&opts.strategy, "strategy", "", "Post-processing (none, ocr); overrides the game's default and STRATEGY")
	pf.StringVar(&opts.apiKeyPath, "api-key-path", "", "Path to API key file (highest precedence)")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "Debug logging")
	pf.BoolVar(&opts.dryRun, "dry-run", false, "Log actions instead of injecting input")

	cmd.Flags().IntVar(&opts.maxCycles, "max-cycles", 0, "Stop after this many cycles (0 = run until interrupted)")
	cmd.Flags().DurationVar(&opts.interval, "interval", 0, "Time between cycles; overrides CYCLE_INTERVAL_SEC")

	cmd.AddCommand(newOnceCmd(opts, out), newResolveCmd(opts, out))
	return cmd
}

func (o cliOptions) loadOptions(cmd *cobra.Command) config.LoadOptions {
	lo := config.LoadOptions{
		APIKeyPathOverride: o.apiKeyPath,
		GameOverride:       o.game,
		ModelOverride:      o.model,
		StrategyOverride:   o.strategy,
	}
	if cmd.Flags().Changed("verbose") {
		v := o.verbose
		lo.VerboseOverride = &v
	}
	return lo
}

func newOnceCmd(opts *cliOptions, out io.Writer) *cobra.Command {
	var execute bool
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run a single cycle and print the resulting actions as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := runtimeinit.Bootstrap(ctx, runtimeinit.Options{LoadOptions: opts.loadOptions(cmd)})
			if err != nil {
				return err
			}
			defer rt.Close()

			actions, err := rt.Agent.NextActions(ctx, llm.NewConversation())
			if err != nil {
				return err
			}
			if err := writeJSON(out, actions); err != nil {
				return err
			}
			if !execute {
				return nil
			}
			return input.NewExecutor(opts.dryRun).Execute(ctx, actions)
		},
	}
	cmd.Flags().BoolVar(&execute, "execute", false, "Replay the actions after printing them")
	return cmd
}

func runLoop(cmd *cobra.Command, opts cliOptions) error {
	ctx := cmd.Context()
	rt, err := runtimeinit.Bootstrap(ctx, runtimeinit.Options{LoadOptions: opts.loadOptions(cmd)})
	if err != nil {
		return err
	}
	defer rt.Close()

	interval := opts.interval
	if interval <= 0 {
		interval = time.Duration(rt.Config.CycleIntervalSec) * time.Second
	}
	if interval <= 0 {
		interval = time.Second
	}

	exec := input.NewExecutor(opts.dryRun)
	conv := llm.NewConversation()
	cycle := func(ctx context.Context) error {
		actions, err := rt.Agent.NextActions(ctx, conv)
		if err != nil {
			return err
		}
		return exec.Execute(ctx, actions)
	}

	return loop(ctx, cycle, interval, opts.maxCycles)
}

// loop submits cycle every interval to a single worker so cycles never
// overlap on the shared screenshot file. Ticks that land while a cycle is
// still running are dropped.
func loop(ctx context.Context, cycle worker.Job, interval time.Duration, maxCycles int) error {
	pool := worker.New(1)
	results := make(chan error, 2)
	// closed before pool.Close so a worker never blocks reporting to a
	// loop that has stopped reading
	stopped := make(chan struct{})
	defer pool.Close()
	defer close(stopped)

	report := func(err error) {
		select {
		case results <- err:
		case <-stopped:
		}
	}

	submitted, completed := 0, 0
	submit := func() {
		if maxCycles > 0 && submitted >= maxCycles {
			return
		}
		if pool.Submit(ctx, cycle, report) {
			submitted++
			return
		}
		log.Debug().Msg("cycle still running, tick dropped")
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	submit()

	for {
		select {
		case <-ctx.Done():
			log.Info().Int("cycles", completed).Msg("interrupted")
			return nil
		case <-ticker.C:
			submit()
		case err := <-results:
			completed++
			if err != nil {
				log.Error().Err(err).Int("cycle", completed).Msg("cycle failed")
			} else {
				log.Info().Int("cycle", completed).Msg("cycle done")
			}
			if maxCycles > 0 && completed >= maxCycles {
				return nil
			}
		}
	}
}

func writeJSON(out io.Writer, actions []action.Action) error {
	if actions == nil {
		actions = []action.Action{}
	}
	data, err := sonic.ConfigStd.MarshalIndent(actions, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode actions: %w", err)
	}
	_, err = fmt.Fprintln(out, string(data))
	return err
}
