package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/holiman/uint256"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/app"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/x/multisig"
	"github.com/tendermint/tendermint/libs/log"
)

// Wallet is the functionality of app.App that the handlers use.
type Wallet interface {
	Info() (*app.Info, error)
	IsOwner(custody.Address) (bool, error)
	IsConfirmed(id uint64, owner custody.Address) (bool, error)
	Transaction(id uint64) (*app.TransactionView, error)
	Transactions(offset uint64, limit int) ([]*app.TransactionView, error)
	Events(after uint64, limit int) ([]*app.EventView, error)
	Submit(ctx custody.Context, caller, destination custody.Address, amount *uint256.Int, payload []byte) (uint64, error)
	Confirm(ctx custody.Context, caller custody.Address, id uint64) error
	Execute(ctx custody.Context, caller custody.Address, id uint64) (*multisig.Transaction, error)
}

var _ Wallet = (*app.App)(nil)

// maxRequestBody limits the size of a request body. Payloads are limited by
// the wallet configuration as well.
const maxRequestBody = 4 << 20

// InfoHandler returns the wallet configuration.
type InfoHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *InfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	info, err := h.Wallet.Info()
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, info)
}

// OwnerHandler tells if an address belongs to the owner set.
type OwnerHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *OwnerHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	addr, err := custody.ParseAddress(mux.Vars(r)["address"])
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	ok, err := h.Wallet.IsOwner(addr)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, struct {
		Address custody.Address `json:"address"`
		Owner   bool            `json:"owner"`
	}{
		Address: addr,
		Owner:   ok,
	})
}

// SubmitRequest is the body of a transaction submission. Amount is a
// decimal string, payload is base64 encoded.
type SubmitRequest struct {
	Caller      custody.Address `json:"caller"`
	Destination custody.Address `json:"destination"`
	Amount      string          `json:"amount"`
	Payload     []byte          `json:"payload"`
}

// SubmitHandler creates a new transaction.
type SubmitHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *SubmitHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req SubmitRequest
	if err := decodeBody(r, &req); err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	amount := new(uint256.Int)
	if req.Amount != "" {
		if err := amount.SetFromDecimal(req.Amount); err != nil {
			JSONErr(w, h.Logger, errors.Field("Amount", errors.ErrInput, "%q: %s", req.Amount, err))
			return
		}
	}
	id, err := h.Wallet.Submit(r.Context(), req.Caller, req.Destination, amount, req.Payload)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusCreated, struct {
		ID uint64 `json:"id"`
	}{
		ID: id,
	})
}

// TransactionsHandler lists transactions ordered by ID.
type TransactionsHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *TransactionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	offset, err := queryUint(q.Get("offset"), 0)
	if err != nil {
		JSONErr(w, h.Logger, errors.Field("offset", err, ""))
		return
	}
	limit, err := queryUint(q.Get("limit"), 0)
	if err != nil {
		JSONErr(w, h.Logger, errors.Field("limit", err, ""))
		return
	}
	txs, err := h.Wallet.Transactions(offset, int(limit))
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, struct {
		Transactions []*app.TransactionView `json:"transactions"`
	}{
		Transactions: txs,
	})
}

// TransactionHandler returns a single transaction.
type TransactionHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *TransactionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := transactionID(r)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	tx, err := h.Wallet.Transaction(id)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, tx)
}

// CallerRequest is the body of confirm and execute requests.
type CallerRequest struct {
	Caller custody.Address `json:"caller"`
}

// ConfirmHandler records the confirmation of the caller.
type ConfirmHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *ConfirmHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := transactionID(r)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	var req CallerRequest
	if err := decodeBody(r, &req); err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	if err := h.Wallet.Confirm(r.Context(), req.Caller, id); err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	h.respond(w, id)
}

func (h *ConfirmHandler) respond(w http.ResponseWriter, id uint64) {
	tx, err := h.Wallet.Transaction(id)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, tx)
}

// ExecuteHandler executes a confirmed transaction. The caller is optional.
type ExecuteHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *ExecuteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := transactionID(r)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	var req CallerRequest
	if r.ContentLength != 0 {
		if err := decodeBody(r, &req); err != nil {
			JSONErr(w, h.Logger, err)
			return
		}
	}
	if _, err := h.Wallet.Execute(r.Context(), req.Caller, id); err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	tx, err := h.Wallet.Transaction(id)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, tx)
}

// ConfirmationHandler tells if an owner confirmed a transaction.
type ConfirmationHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *ConfirmationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := transactionID(r)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	owner, err := custody.ParseAddress(mux.Vars(r)["owner"])
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	ok, err := h.Wallet.IsConfirmed(id, owner)
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	JSONResp(w, h.Logger, http.StatusOK, struct {
		TransactionID uint64          `json:"transaction_id"`
		Owner         custody.Address `json:"owner"`
		Confirmed     bool            `json:"confirmed"`
	}{
		TransactionID: id,
		Owner:         owner,
		Confirmed:     ok,
	})
}

// EventsHandler lists committed notifications.
type EventsHandler struct {
	Wallet Wallet
	Logger log.Logger
}

func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	after, err := queryUint(q.Get("after"), 0)
	if err != nil {
		JSONErr(w, h.Logger, errors.Field("after", err, ""))
		return
	}
	limit, err := queryUint(q.Get("limit"), 0)
	if err != nil {
		JSONErr(w, h.Logger, errors.Field("limit", err, ""))
		return
	}
	events, err := h.Wallet.Events(after, int(limit))
	if err != nil {
		JSONErr(w, h.Logger, err)
		return
	}
	if events == nil {
		events = []*app.EventView{}
	}
	JSONResp(w, h.Logger, http.StatusOK, struct {
		Events []*app.EventView `json:"events"`
	}{
		Events: events,
	})
}

// DefaultHandler is used to handle the request that no other handler wants.
type DefaultHandler struct {
	Logger log.Logger
}

func (h *DefaultHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	JSONErr(w, h.Logger, errors.Wrapf(errors.ErrNotFound, "%s %s", r.Method, r.URL.Path))
}

func transactionID(r *http.Request) (uint64, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrNotFound, "transaction %q", raw)
	}
	return id, nil
}

func queryUint(raw string, fallback uint64) (uint64, error) {
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrInput, "%q is not a number", raw)
	}
	return n, nil
}

func decodeBody(r *http.Request, dest interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		return errors.Wrapf(errors.ErrInput, "invalid JSON body: %s", err)
	}
	return nil
}
