package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/elvannunal/portfolio/internal/config"
	"github.com/elvannunal/portfolio/internal/contact"
	"github.com/elvannunal/portfolio/internal/content"
	"github.com/elvannunal/portfolio/internal/logger"
	"github.com/elvannunal/portfolio/internal/metrics"
	"github.com/elvannunal/portfolio/internal/store"
	"github.com/elvannunal/portfolio/internal/web"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web server",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	if err := logger.InitWriter(os.Stdout, cfg.LogFormat); err != nil {
		return err
	}
	level := cfg.LogLevel
	if verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		return err
	}
	log := logger.Get()
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	site, err := content.Load()
	if err != nil {
		return err
	}
	st, err := store.Open(ctx, cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	m := metrics.New()
	relay, err := newRelay(cfg)
	if err != nil {
		return err
	}
	svc := contact.NewService(relay,
		contact.WithStore(st),
		contact.WithLogger(log.Named("contact")),
		contact.WithObserver(m.RecordContact),
	)

	srv, err := web.New(cfg, site, st,
		web.WithLogger(log.Named("web")),
		web.WithMetrics(m),
		web.WithContact(svc),
	)
	if err != nil {
		return err
	}
	engine, err := srv.Engine()
	if err != nil {
		return err
	}
	runCtx, cancelRun := context.WithCancel(ctx)
	runDone := make(chan struct{})
	go func() {
		defer close(runDone)
		srv.Run(runCtx)
	}()
	// Runs before st.Close: maintenance must be finished with the store.
	defer func() {
		cancelRun()
		<-runDone
	}()

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "listening",
			logger.String("addr", cfg.Addr),
			logger.String("relay", relay.Name()),
			logger.String("section_strategy", cfg.SectionStrategy),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return errors.Wrap(err, "http server")
		}
		return nil
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Wrap(httpServer.Shutdown(shutdownCtx), "shutdown")
}

func newRelay(cfg *config.Config) (contact.Relay, error) {
	switch cfg.Relay {
	case "formspree":
		return contact.NewFormspreeRelay(cfg.FormspreeBaseURL, cfg.FormspreeFormID, cfg.RelayTimeout()), nil
	case "smtp":
		return contact.NewSMTPRelay(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass, cfg.ContactTo), nil
	case "none":
		return contact.NopRelay{}, nil
	}
	return nil, errors.Wrapf(config.ErrInvalidConfig, "relay %q", cfg.Relay)
}
