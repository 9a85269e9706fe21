package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/impeter-app/impeter-server/internal/catalog"
	"github.com/impeter-app/impeter-server/internal/httpapi"
	"github.com/impeter-app/impeter-server/internal/hub"
)

const releaseVersion = "0.1.0"

type config struct {
	bind          string
	port          int
	wordsFile     string
	lobbyTimeout  time.Duration
	sweepInterval time.Duration
	verbose       bool
}

func (c *config) validate() error {
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.lobbyTimeout <= 0 || c.sweepInterval <= 0 {
		return errors.New("--lobby-timeout and --sweep-interval must be positive")
	}
	return nil
}

func newCmd(cfg *config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("IMPETER")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "impeter-server",
		Short:         "Real-time session coordinator for the Impeter party game.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: IMPETER_BIND)")
	fs.IntVarP(&cfg.port, "port", "p", 3000, "port to listen on (env: IMPETER_PORT)")
	fs.StringVar(&cfg.wordsFile, "words-file", "", "path to a word catalog JSON file; builtin list if unset (env: IMPETER_WORDS_FILE)")
	fs.DurationVar(&cfg.lobbyTimeout, "lobby-timeout", hub.DefaultRetention, "time after creation before a lobby is evicted (env: IMPETER_LOBBY_TIMEOUT)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", hub.DefaultSweepInterval, "how often stale lobbies are swept (env: IMPETER_SWEEP_INTERVAL)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "enable debug logging (env: IMPETER_VERBOSE)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("impeter-server v{{.Version}}\n")

	return cmd
}

func serve(ctx context.Context, cfg *config) error {
	logger, err := newLogger(cfg.verbose)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	words := catalog.LoadOrBuiltin(cfg.wordsFile, logger)

	h := hub.NewHub(ctx, hub.Config{
		Catalog:       words,
		Logger:        logger,
		Retention:     cfg.lobbyTimeout,
		SweepInterval: cfg.sweepInterval,
	})

	addr := net.JoinHostPort(cfg.bind, fmt.Sprint(cfg.port))
	srv := &http.Server{
		Addr:    addr,
		Handler: httpapi.SetupRoutes(h, logger),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("impeter server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		logger.Info("shutting down")
		h.Inbox() <- hub.Shutdown{}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func main() {
	// .env is optional; absence is not an error.
	_ = godotenv.Load()

	cfg := &config{}
	cobra.CheckErr(newCmd(cfg).ExecuteContext(context.Background()))
}
