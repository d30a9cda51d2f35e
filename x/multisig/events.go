package multisig

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/orm"
)

// MaxEventsPage limits how many events a single List call returns.
const MaxEventsPage = 1000

// EventLog is an append only list of notifications. Events are written in
// the same store as the state change they describe, so an event is visible
// exactly when its state change is.
type EventLog struct {
	bucket orm.Bucket
	seq    orm.Sequence
}

func NewEventLog() *EventLog {
	return &EventLog{
		bucket: orm.NewBucket("events", &Event{}),
		seq:    orm.NewSequence("events", "seq"),
	}
}

// Emit assigns the next sequence number to the event and appends it.
func (l *EventLog) Emit(db custody.KVStore, e *Event) error {
	seq, err := l.seq.NextInt(db)
	if err != nil {
		return errors.Wrap(err, "cannot acquire event sequence")
	}
	e.Seq = seq
	if err := l.bucket.Put(db, orm.EncodeSequence(seq), e); err != nil {
		return errors.Wrapf(err, "cannot save %s event", e.Kind)
	}
	return nil
}

// Last returns the sequence number of the most recent event, zero if there
// is none.
func (l *EventLog) Last(db custody.ReadOnlyKVStore) (uint64, error) {
	return l.seq.Latest(db)
}

// Get returns the event with given sequence number.
func (l *EventLog) Get(db custody.ReadOnlyKVStore, seq uint64) (*Event, error) {
	var e Event
	if err := l.bucket.One(db, orm.EncodeSequence(seq), &e); err != nil {
		return nil, errors.Wrapf(err, "event %d", seq)
	}
	return &e, nil
}

// List returns up to limit events that follow the event with sequence
// number after, oldest first. Use zero to list from the beginning.
func (l *EventLog) List(db custody.ReadOnlyKVStore, after uint64, limit int) ([]*Event, error) {
	if limit <= 0 || limit > MaxEventsPage {
		limit = MaxEventsPage
	}
	last, err := l.Last(db)
	if err != nil {
		return nil, err
	}
	if after >= last {
		return nil, nil
	}
	var events []*Event
	for seq := after + 1; seq <= last && len(events) < limit; seq++ {
		e, err := l.Get(db, seq)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, nil
}
