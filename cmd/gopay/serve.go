package gopay

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/liftedinit/gopay/internal/client"
	"github.com/liftedinit/gopay/internal/config"
	"github.com/liftedinit/gopay/internal/kyc"
	"github.com/liftedinit/gopay/internal/kyc/postgresql"
	"github.com/liftedinit/gopay/internal/metrics"
	"github.com/liftedinit/gopay/internal/metrics/collectors"
	"github.com/liftedinit/gopay/internal/monitor"
	"github.com/liftedinit/gopay/internal/payment"
	"github.com/liftedinit/gopay/internal/session"
	"github.com/liftedinit/gopay/internal/view"
	"github.com/liftedinit/gopay/internal/web"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Args:    cobra.NoArgs,
	Short:   "Serve the wallet front-end",
	Long:    `Serve the login, dashboard, payment and KYC pages, polling the ledger for its status.`,
	PreRunE: bindFlags,
	RunE: func(cmd *cobra.Command, args []string) error {
		serveConfig := config.LoadServeConfigFromCLI()
		if err := serveConfig.Validate(); err != nil {
			return fmt.Errorf("invalid serve configuration: %w", err)
		}
		slog.Debug("Command-line arguments", "listenAddr", serveConfig.ListenAddr, "pollInterval", serveConfig.PollInterval)

		ledger, err := newLedgerClient()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		handleInterrupt(cancel)

		return serve(ctx, ledger, serveConfig)
	},
}

func init() {
	serveCmd.Flags().String("listen-addr", "localhost:3000", "Address and port of the web front-end")
	serveCmd.Flags().String("session-secret", "", "Secret used to sign session cookies (generated when empty)")
	serveCmd.Flags().Duration("session-ttl", 24*time.Hour, "Session cookie lifetime")
	serveCmd.Flags().Duration("poll-interval", monitor.DefaultInterval, "Ledger status refresh interval")
	serveCmd.Flags().Int("recent", view.DefaultRecent, "Number of recent blocks shown on the dashboard")
	serveCmd.Flags().Duration("login-delay", session.DefaultLoginDelay, "Simulated login delay")
	serveCmd.Flags().StringP("postgres-conn", "p", "", "PostgreSQL connection string for KYC submissions (in-memory when empty)")
	serveCmd.Flags().Bool("enable-prometheus", false, "Enable Prometheus metrics server")
	serveCmd.Flags().String("prometheus-addr", metrics.DefaultAddr, "Address and port of the Prometheus metrics server")
	addPaymentFlags(serveCmd)
}

func addPaymentFlags(cmd *cobra.Command) {
	cmd.Flags().Duration("processing-delay", payment.DefaultProcessingDelay, "Simulated payment processing delay")
	cmd.Flags().String("compensation-policy", string(payment.CompensationSilent),
		fmt.Sprintf("What to do when a failed payment cannot be recorded (%s|%s)", payment.CompensationSilent, payment.CompensationWarn))
}

// serve runs the web front-end, the ledger monitor and the optional metrics server until ctx is cancelled.
func serve(ctx context.Context, ledger *client.LedgerClient, cfg config.ServeConfig) error {
	secret := cfg.SessionSecret
	if secret == "" {
		var err error
		if secret, err = randomSecret(); err != nil {
			return err
		}
		slog.Warn("No session secret configured, sessions will not survive a restart")
	}
	tokens, err := session.NewTokenCodec(secret, cfg.SessionTTL)
	if err != nil {
		return err
	}

	var (
		kycStore kyc.Store = kyc.NewMemoryStore()
		db       *sql.DB
	)
	if cfg.PostgresConn != "" {
		slog.Info("Using PostgreSQL KYC store", "conn", config.PostgresConfig{ConnString: cfg.PostgresConn}.Redacted())
		pg, err := postgresql.NewStore(ctx, cfg.PostgresConn)
		if err != nil {
			return fmt.Errorf("failed to open KYC database: %w", err)
		}
		kycStore, db = pg, pg.DB()
	}
	defer kycStore.Close()

	mon := monitor.New(ledger, cfg.PollInterval, cfg.Recent)
	paymentsCollector := collectors.NewPaymentsCollector()

	srv, err := web.NewServer(web.Options{
		Sessions: session.NewManager(session.MockAuthenticator{Delay: cfg.LoginDelay}, session.NewStore(), tokens),
		Status:   mon,
		Payments: payment.NewFlow(ledger, cfg.Payment.ProcessingDelay, cfg.Payment.CompensationPolicy),
		KYC:      kycStore,
		Observer: paymentsCollector,
	})
	if err != nil {
		return err
	}

	var metricsServer *http.Server
	if cfg.EnablePrometheus {
		metricsServer, err = metrics.CreateMetricsServer(cfg.PrometheusAddr, collectors.Sources{DB: db, Ledger: mon}, paymentsCollector)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return mon.Run(egCtx)
	})
	eg.Go(func() error {
		return srv.ListenAndServe(egCtx, cfg.ListenAddr)
	})
	if metricsServer != nil {
		eg.Go(func() error {
			<-egCtx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := metricsServer.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("failed to shut down metrics server: %w", err)
			}
			return nil
		})
	}

	return eg.Wait()
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// handleInterrupt handles interrupt signals for graceful shutdown.
func handleInterrupt(cancel context.CancelFunc) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		slog.Info("Received interrupt signal, shutting down...")
		cancel()
	}()
}
