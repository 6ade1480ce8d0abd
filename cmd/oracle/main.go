package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/PabloGalante/pill-oracle/internal/adapters/llm"
	"github.com/PabloGalante/pill-oracle/internal/app/fortune"
	"github.com/PabloGalante/pill-oracle/internal/config"
	"github.com/PabloGalante/pill-oracle/internal/domain"
	"github.com/PabloGalante/pill-oracle/internal/observability"
)

var rootCmd = &cobra.Command{
	Use:   "oracle",
	Short: "Take the red pill or the blue pill and receive a fortune",
}

func init() {
	rootCmd.AddCommand(newDrawCmd())
	rootCmd.AddCommand(newPlayCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "oracle: %v\n", err)
		os.Exit(1)
	}
}

// runtimeFlags are shared by every subcommand that talks to the oracle.
type runtimeFlags struct {
	backend     string
	revealDelay time.Duration
	verbose     bool
}

func (f *runtimeFlags) register(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&f.backend, "backend", "", "Inference backend: agent, vertex or mock (overrides ORACLE_BACKEND)")
	flags.DurationVar(&f.revealDelay, "reveal-delay", time.Second, "Pause between the fortune arriving and the reveal")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "Write JSON logs to stderr")
}

// oracleRuntime is a configured controller plus the cleanup for its client.
type oracleRuntime struct {
	cfg   *config.Config
	ctrl  *fortune.Controller
	close func() error
}

func newRuntime(ctx context.Context, cmd *cobra.Command, f *runtimeFlags, opts ...fortune.Option) (*oracleRuntime, error) {
	if f.verbose {
		observability.SetOutput(cmd.ErrOrStderr())
	} else {
		observability.SetOutput(io.Discard)
	}

	cfg, err := config.Load(func(c *config.Config) {
		if f.backend != "" {
			c.Backend = config.Backend(f.backend)
		}
		if cmd.Flags().Changed("reveal-delay") {
			c.RevealDelay = f.revealDelay
		}
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	observability.SetLevel(cfg.LogLevel)

	client, closeFn, err := llm.NewFromConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating inference client: %w", err)
	}

	base := []fortune.Option{
		fortune.WithAgentID(cfg.AgentID),
		fortune.WithRevealDelay(cfg.RevealDelay),
		fortune.WithRequestTimeout(cfg.RequestTimeout),
		fortune.WithLogger(observability.Logger()),
	}

	return &oracleRuntime{
		cfg:   cfg,
		ctrl:  fortune.New(client, append(base, opts...)...),
		close: closeFn,
	}, nil
}

func newDrawCmd() *cobra.Command {
	var rf runtimeFlags

	cmd := &cobra.Command{
		Use:   "draw <red|blue>",
		Short: "Swallow a pill and print the fortune it reveals",
		Long: `Swallow a pill and print the fortune it reveals.

The red pill asks for a truth-themed fortune, the blue pill for comfort.
"truth" and "comfort" are accepted as aliases.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			theme, err := domain.ParseTheme(args[0])
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd.Context(), cmd, &rf)
			if err != nil {
				return err
			}
			defer rt.close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, mutedStyle.Render("The oracle contemplates your choice..."))

			rt.ctrl.SelectTheme(theme)
			rt.ctrl.Wait()

			fmt.Fprintln(out, renderFortune(rt.ctrl.State()))
			return nil
		},
	}
	rf.register(cmd)

	return cmd
}

func newPlayCmd() *cobra.Command {
	var rf runtimeFlags

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Open the interactive oracle",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, &rf)
		},
	}
	rf.register(cmd)

	return cmd
}
