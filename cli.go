package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"briefium/config"
	"briefium/generator"
	"briefium/render"
	"briefium/server"
)

const shutdownTimeout = 15 * time.Second

type rootOptions struct {
	configPath string
	verbose    bool
	logger     *zap.Logger
}

func newRootOptions() *rootOptions {
	return &rootOptions{logger: zap.NewNop()}
}

// newRootCmd wires the subcommands. The caller owns opts.logger and syncs it
// after Execute, whether or not a command failed.
func newRootCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "briefium",
		Short:         "Generate SEO content briefs with a generative text backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zc := zap.NewProductionConfig()
			if opts.verbose {
				zc.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := zc.Build()
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.json or config.yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logs")

	cmd.AddCommand(newGenerateCmd(opts), newServeCmd(opts))
	return cmd
}

// buildGenerator resolves configuration and the backend once per process.
func buildGenerator(ctx context.Context, opts *rootOptions) (*generator.Generator, config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath)
	if err != nil {
		return nil, config.Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, config.Config{}, err
	}
	llm, err := generator.NewLLM(ctx, cfg.LLMSettings())
	if err != nil {
		return nil, config.Config{}, err
	}
	gen, err := generator.NewGenerator(llm,
		generator.WithTimeout(cfg.Timeout()),
		generator.WithLogger(opts.logger),
	)
	if err != nil {
		return nil, config.Config{}, err
	}
	opts.logger.Info("backend configured",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", cfg.LLM.Model),
	)
	return gen, cfg, nil
}

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	var (
		req    generator.BriefRequest
		tone   string
		page   string
		intent string
		raw    bool
		width  int
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate one content brief and print it",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, _, err := buildGenerator(cmd.Context(), opts)
			if err != nil {
				return err
			}
			req.Tone = generator.Tone(tone)
			req.PageType = generator.PageType(page)
			req.UserIntent = generator.UserIntent(intent)
			req.WordCount = generator.NormalizeWordCount(req.WordCount)

			res, err := gen.Generate(cmd.Context(), req)
			if err != nil {
				return err
			}
			if !res.OK() {
				return errors.New(res.Message())
			}
			out := res.Brief()
			if !raw {
				if out, err = render.Terminal(res.Brief(), width, ""); err != nil {
					return err
				}
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.Topic, "topic", "", "main topic / primary keyword (required)")
	f.StringVar(&req.Keywords, "keywords", "", "supporting keywords, comma-separated")
	f.StringVar(&tone, "tone", "", "tone of voice")
	f.IntVar(&req.WordCount, "word-count", generator.DefaultWordCount, "requested word count (300-5000, step 50)")
	f.StringVar(&page, "page-type", "", "page type")
	f.StringVar(&intent, "user-intent", "", "primary user intent")
	f.BoolVar(&raw, "raw", false, "print the Markdown brief without terminal styling")
	f.IntVar(&width, "width", 100, "terminal wrap width")
	return cmd
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the brief request web form",
		RunE: func(cmd *cobra.Command, args []string) error {
			gen, cfg, err := buildGenerator(cmd.Context(), opts)
			if err != nil {
				return err
			}
			srv, err := server.New(gen, opts.logger)
			if err != nil {
				return err
			}
			listen := cfg.ServerAddr
			if addr != "" {
				listen = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServer(ctx, listen, srv.Routes(), opts.logger)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "http listen address (overrides config server_addr)")
	return cmd
}

// runServer serves until ctx is done, then shuts down gracefully.
func runServer(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting web server", zap.String("addr", addr))
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down", zap.NamedError("cause", context.Cause(ctx)))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", zap.Error(err))
			if err := srv.Close(); err != nil {
				return fmt.Errorf("could not stop server gracefully: %w", err)
			}
		}
		logger.Info("server stopped")
	}
	return nil
}
