package app

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/x/multisig"
)

// TransactionView is the JSON representation of a transaction. The amount
// is a decimal string, the payload is base64 encoded.
type TransactionView struct {
	ID                uint64            `json:"id"`
	Proposer          custody.Address   `json:"proposer"`
	Destination       custody.Address   `json:"destination"`
	Amount            string            `json:"amount"`
	Payload           []byte            `json:"payload"`
	Executed          bool              `json:"executed"`
	ConfirmationCount uint32            `json:"confirmation_count"`
	Confirmers        []custody.Address `json:"confirmers"`
	Dispatch          *DispatchView     `json:"dispatch,omitempty"`
}

type DispatchView struct {
	Succeeded bool   `json:"succeeded"`
	Error     string `json:"error,omitempty"`
}

func NewTransactionView(tx *multisig.Transaction, confirmers []custody.Address, d *multisig.Dispatch) *TransactionView {
	v := &TransactionView{
		ID:                tx.ID,
		Proposer:          tx.Proposer,
		Destination:       tx.Destination,
		Amount:            tx.AmountValue().Dec(),
		Payload:           tx.Payload,
		Executed:          tx.Executed,
		ConfirmationCount: tx.ConfirmationCount,
		Confirmers:        confirmers,
	}
	if v.Confirmers == nil {
		v.Confirmers = []custody.Address{}
	}
	if d != nil {
		v.Dispatch = &DispatchView{Succeeded: d.Succeeded, Error: d.Error}
	}
	return v
}

// EventView is the JSON representation of a notification, as returned by
// the API and published to sinks.
type EventView struct {
	Seq           uint64          `json:"seq"`
	Kind          string          `json:"kind"`
	TransactionID uint64          `json:"transaction_id"`
	Owner         custody.Address `json:"owner,omitempty"`
	Destination   custody.Address `json:"destination,omitempty"`
	Amount        string          `json:"amount,omitempty"`
}

func NewEventView(e *multisig.Event) *EventView {
	v := &EventView{
		Seq:           e.Seq,
		Kind:          e.Kind.String(),
		TransactionID: e.TransactionID,
		Owner:         e.Owner,
		Destination:   e.Destination,
	}
	if e.Kind == multisig.EventTransactionSubmitted {
		v.Amount = e.AmountValue().Dec()
	}
	return v
}
