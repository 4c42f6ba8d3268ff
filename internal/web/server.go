// Package web serves the wallet front-end: login, dashboard, payments and KYC.
package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"

	"github.com/liftedinit/gopay/internal/kyc"
	"github.com/liftedinit/gopay/internal/monitor"
	"github.com/liftedinit/gopay/internal/payment"
	"github.com/liftedinit/gopay/internal/session"
)

const (
	sessionCookie   = "gopay_session"
	shutdownTimeout = 10 * time.Second
)

// StatusSource provides the latest ledger status.
type StatusSource interface {
	State() monitor.State
}

// PaymentObserver is told the final state of every payment attempt.
type PaymentObserver interface {
	Observe(state string)
}

type Options struct {
	Sessions *session.Manager
	Status   StatusSource
	Payments *payment.Flow
	KYC      kyc.Store
	// Observer is optional.
	Observer PaymentObserver
}

type Server struct {
	sessions *session.Manager
	status   StatusSource
	payments *payment.Flow
	kyc      kyc.Store
	observer PaymentObserver
	pages    pages
}

func NewServer(opts Options) (*Server, error) {
	switch {
	case opts.Sessions == nil:
		return nil, fmt.Errorf("missing session manager")
	case opts.Status == nil:
		return nil, fmt.Errorf("missing ledger status source")
	case opts.Payments == nil:
		return nil, fmt.Errorf("missing payment flow")
	case opts.KYC == nil:
		return nil, fmt.Errorf("missing KYC store")
	}

	p, err := parsePages()
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	return &Server{
		sessions: opts.Sessions,
		status:   opts.Status,
		payments: opts.Payments,
		kyc:      opts.KYC,
		observer: opts.Observer,
		pages:    p,
	}, nil
}

// Handler returns the routed front-end.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.Use(logRequests, s.loadSession)

	r.HandleFunc("/", s.loginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", s.loginPage).Methods(http.MethodGet)
	r.HandleFunc("/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.logout).Methods(http.MethodPost)
	r.HandleFunc("/healthz", healthz).Methods(http.MethodGet)

	r.Handle("/dashboard", requireSession(http.HandlerFunc(s.dashboard))).Methods(http.MethodGet)
	r.Handle("/payment", requireSession(http.HandlerFunc(s.paymentPage))).Methods(http.MethodGet)
	r.Handle("/payment", requireSession(http.HandlerFunc(s.submitPayment))).Methods(http.MethodPost)
	r.Handle("/kyc", requireSession(http.HandlerFunc(s.kycPage))).Methods(http.MethodGet)
	r.Handle("/kyc", requireSession(http.HandlerFunc(s.submitKYC))).Methods(http.MethodPost)

	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet},
	})
	r.Handle("/api/ledger", c.Handler(http.HandlerFunc(s.ledgerStatus))).Methods(http.MethodGet, http.MethodOptions)

	return r
}

// ListenAndServe serves the front-end on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting web server", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("web server failed: %w", err)
	case <-ctx.Done():
	}

	slog.Info("Shutting down web server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down web server: %w", err)
	}
	return nil
}

func healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}
