package app

import (
	"github.com/iov-one/custody"
)

// paginationMaxItems limits how many transactions a single listing returns.
const paginationMaxItems = 100

// Info describes the wallet.
type Info struct {
	Version               string            `json:"version"`
	Owners                []custody.Address `json:"owners"`
	RequiredConfirmations uint32            `json:"required_confirmations"`
	MaxPayloadSize        uint32            `json:"max_payload_size"`
	TransactionCount      uint64            `json:"transaction_count"`
}

// Info returns the wallet configuration and the number of submitted
// transactions.
func (a *App) Info() (*Info, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	w, err := a.ctrl.Wallet(a.db)
	if err != nil {
		return nil, err
	}
	count, err := a.ctrl.TransactionCount(a.db)
	if err != nil {
		return nil, err
	}
	return &Info{
		Version:               custody.Version(),
		Owners:                w.Owners,
		RequiredConfirmations: w.RequiredConfirmations,
		MaxPayloadSize:        w.MaxPayloadSize,
		TransactionCount:      count,
	}, nil
}

func (a *App) IsOwner(addr custody.Address) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.IsOwner(a.db, addr)
}

func (a *App) IsConfirmed(id uint64, owner custody.Address) (bool, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.ctrl.IsConfirmed(a.db, id, owner)
}

// Transaction returns the transaction together with the owners that
// confirmed it and its dispatch outcome.
func (a *App) Transaction(id uint64) (*TransactionView, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.transactionView(id)
}

// Transactions returns up to limit transactions starting with ID offset.
func (a *App) Transactions(offset uint64, limit int) ([]*TransactionView, error) {
	if limit <= 0 || limit > paginationMaxItems {
		limit = paginationMaxItems
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	count, err := a.ctrl.TransactionCount(a.db)
	if err != nil {
		return nil, err
	}
	views := make([]*TransactionView, 0, limit)
	for id := offset; id < count && len(views) < limit; id++ {
		v, err := a.transactionView(id)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, nil
}

func (a *App) transactionView(id uint64) (*TransactionView, error) {
	tx, err := a.ctrl.Transaction(a.db, id)
	if err != nil {
		return nil, err
	}
	confirmers, err := a.ctrl.Confirmers(a.db, id)
	if err != nil {
		return nil, err
	}
	d, err := a.ctrl.Dispatch(a.db, id)
	if err != nil {
		return nil, err
	}
	return NewTransactionView(tx, confirmers, d), nil
}

// Events returns committed notifications that follow the event with
// sequence number after.
func (a *App) Events(after uint64, limit int) ([]*EventView, error) {
	a.mu.Lock()
	events, err := a.ctrl.Events(a.db, after, limit)
	a.mu.Unlock()
	if err != nil {
		return nil, err
	}
	views := make([]*EventView, len(events))
	for i, e := range events {
		views[i] = NewEventView(e)
	}
	return views, nil
}
