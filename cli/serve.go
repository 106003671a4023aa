package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"redbook_copy_assistant/config"
	"redbook_copy_assistant/generator"
	"redbook_copy_assistant/server"
)

func newServeCommand(opts *options) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		Long: `Start the HTTP API used by the browser client. Every request carries its own
API key, endpoint and model; the server keeps no credentials.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.ServerAddr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts, cfg)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides server_addr)")
	return cmd
}

func runServe(ctx context.Context, opts *options, cfg config.Config) error {
	var llm generator.LLMClient = generator.NewOpenAILLM(cfg.RequestTimeout)
	if opts.mock {
		log.Warn().Msg("serving with the mock model, no real completions will be made")
		llm = generator.MockLLM{Delay: 300 * time.Millisecond}
	}
	agent, err := generator.NewAgent(llm, log.Logger)
	if err != nil {
		return err
	}
	srv, err := server.New(agent, cfg, log.Logger)
	if err != nil {
		return err
	}

	httpSrv := &http.Server{
		Addr:              cfg.ServerAddr,
		Handler:           srv.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ServerAddr).Msg("starting web server")
		errCh <- httpSrv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.RequestTimeout)
	defer cancel()
	return httpSrv.Shutdown(shutdownCtx)
}
