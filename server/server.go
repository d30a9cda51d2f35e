package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/iov-one/custody/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// NewRouter returns the HTTP API of the wallet. Metrics are served on
// /metrics when a metrics handler is given.
func NewRouter(wallet Wallet, metrics http.Handler, logger log.Logger) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/info", &InfoHandler{Wallet: wallet, Logger: logger}).Methods("GET")
	r.Handle("/owners/{address}", &OwnerHandler{Wallet: wallet, Logger: logger}).Methods("GET")
	r.Handle("/transactions", &SubmitHandler{Wallet: wallet, Logger: logger}).Methods("POST")
	r.Handle("/transactions", &TransactionsHandler{Wallet: wallet, Logger: logger}).Methods("GET")
	r.Handle("/transactions/{id}", &TransactionHandler{Wallet: wallet, Logger: logger}).Methods("GET")
	r.Handle("/transactions/{id}/confirm", &ConfirmHandler{Wallet: wallet, Logger: logger}).Methods("POST")
	r.Handle("/transactions/{id}/execute", &ExecuteHandler{Wallet: wallet, Logger: logger}).Methods("POST")
	r.Handle("/transactions/{id}/confirmations/{owner}", &ConfirmationHandler{Wallet: wallet, Logger: logger}).Methods("GET")
	r.Handle("/events", &EventsHandler{Wallet: wallet, Logger: logger}).Methods("GET")
	if metrics != nil {
		r.Handle("/metrics", metrics).Methods("GET")
	}
	r.NotFoundHandler = &DefaultHandler{Logger: logger}

	return r
}

// Serve runs the HTTP server until the context is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return errors.Wrap(err, "http server")
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "http server shutdown")
		}
		return nil
	}
}
