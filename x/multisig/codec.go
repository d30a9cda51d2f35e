package multisig

import (
	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
)

// Models of this package are plain protobuf messages. They are encoded by the
// gogo/protobuf reflection marshaler using the field tags below, so the tags
// are the wire format and must never be renumbered.

// Wallet is the owner set together with the wallet wide configuration. It is
// written once, when the wallet is initialized.
type Wallet struct {
	// Owners in the order they were registered. Each address appears once.
	Owners []custody.Address `protobuf:"bytes,1,rep,name=owners,proto3,casttype=github.com/iov-one/custody.Address" json:"owners"`
	// RequiredConfirmations is the quorum, between 1 and len(Owners).
	RequiredConfirmations uint32 `protobuf:"varint,2,opt,name=required_confirmations,json=requiredConfirmations,proto3" json:"required_confirmations"`
	// MaxPayloadSize limits the size of a transaction payload in bytes.
	MaxPayloadSize uint32 `protobuf:"varint,3,opt,name=max_payload_size,json=maxPayloadSize,proto3" json:"max_payload_size"`
}

func (m *Wallet) Reset()         { *m = Wallet{} }
func (m *Wallet) String() string { return proto.CompactTextString(m) }
func (*Wallet) ProtoMessage()    {}

// Owner is the membership record of a single owner.
type Owner struct {
	Address custody.Address `protobuf:"bytes,1,opt,name=address,proto3,casttype=github.com/iov-one/custody.Address" json:"address"`
	// Position of this owner in Wallet.Owners.
	Position uint32 `protobuf:"varint,2,opt,name=position,proto3" json:"position"`
}

func (m *Owner) Reset()         { *m = Owner{} }
func (m *Owner) String() string { return proto.CompactTextString(m) }
func (*Owner) ProtoMessage()    {}

// Transaction is a proposed action: a transfer of Amount to Destination with
// an opaque Payload.
type Transaction struct {
	ID          uint64          `protobuf:"varint,1,opt,name=id,proto3" json:"id"`
	Proposer    custody.Address `protobuf:"bytes,2,opt,name=proposer,proto3,casttype=github.com/iov-one/custody.Address" json:"proposer"`
	Destination custody.Address `protobuf:"bytes,3,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination"`
	// Amount is a big endian unsigned integer of at most 32 bytes. Empty
	// means zero.
	Amount            []byte `protobuf:"bytes,4,opt,name=amount,proto3" json:"amount,omitempty"`
	Payload           []byte `protobuf:"bytes,5,opt,name=payload,proto3" json:"payload,omitempty"`
	Executed          bool   `protobuf:"varint,6,opt,name=executed,proto3" json:"executed"`
	ConfirmationCount uint32 `protobuf:"varint,7,opt,name=confirmation_count,json=confirmationCount,proto3" json:"confirmation_count"`
}

func (m *Transaction) Reset()         { *m = Transaction{} }
func (m *Transaction) String() string { return proto.CompactTextString(m) }
func (*Transaction) ProtoMessage()    {}

// Confirmation records that Owner approved the transaction TransactionID.
type Confirmation struct {
	TransactionID uint64          `protobuf:"varint,1,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
	Owner         custody.Address `protobuf:"bytes,2,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner"`
}

func (m *Confirmation) Reset()         { *m = Confirmation{} }
func (m *Confirmation) String() string { return proto.CompactTextString(m) }
func (*Confirmation) ProtoMessage()    {}

// EventKind tells which operation produced an event.
type EventKind int32

const (
	EventTransactionSubmitted EventKind = 1
	EventTransactionConfirmed EventKind = 2
	EventTransactionExecuted  EventKind = 3
)

var eventKindNames = map[EventKind]string{
	EventTransactionSubmitted: "TransactionSubmitted",
	EventTransactionConfirmed: "TransactionConfirmed",
	EventTransactionExecuted:  "TransactionExecuted",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Event is a notification about a committed state change. Which of the
// optional fields are set depends on the kind:
//
//   TransactionSubmitted: Owner (the proposer), Destination, Amount
//   TransactionConfirmed: Owner (the confirming owner)
//   TransactionExecuted:  none
type Event struct {
	// Seq is the position in the event log, starting with 1.
	Seq           uint64          `protobuf:"varint,1,opt,name=seq,proto3" json:"seq"`
	Kind          EventKind       `protobuf:"varint,2,opt,name=kind,proto3,casttype=EventKind" json:"kind"`
	TransactionID uint64          `protobuf:"varint,3,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
	Owner         custody.Address `protobuf:"bytes,4,opt,name=owner,proto3,casttype=github.com/iov-one/custody.Address" json:"owner,omitempty"`
	Destination   custody.Address `protobuf:"bytes,5,opt,name=destination,proto3,casttype=github.com/iov-one/custody.Address" json:"destination,omitempty"`
	Amount        []byte          `protobuf:"bytes,6,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *Event) Reset()         { *m = Event{} }
func (m *Event) String() string { return proto.CompactTextString(m) }
func (*Event) ProtoMessage()    {}

// Dispatch is the outcome of handing an executed transaction over to the
// dispatcher.
type Dispatch struct {
	TransactionID uint64 `protobuf:"varint,1,opt,name=transaction_id,json=transactionId,proto3" json:"transaction_id"`
	Succeeded     bool   `protobuf:"varint,2,opt,name=succeeded,proto3" json:"succeeded"`
	Error         string `protobuf:"bytes,3,opt,name=error,proto3" json:"error,omitempty"`
}

func (m *Dispatch) Reset()         { *m = Dispatch{} }
func (m *Dispatch) String() string { return proto.CompactTextString(m) }
func (*Dispatch) ProtoMessage()    {}
