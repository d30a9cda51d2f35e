package multisig

import (
	"context"
	"math/rand"
	"testing"

	"github.com/holiman/uint256"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/custodytest"
	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	. "github.com/smartystreets/goconvey/convey"
)

var (
	alice = custodytest.NamedAddr("alice")
	bert  = custodytest.NamedAddr("bert")
	carl  = custodytest.NamedAddr("carl")
	dest  = custodytest.NamedAddr("destination")
	xeno  = custodytest.NamedAddr("xeno")
)

func newWallet(t testing.TB, required uint32, owners ...custody.Address) (*Controller, custody.CacheableKVStore) {
	t.Helper()
	db := store.MemStore()
	ctrl := NewController()
	if err := ctrl.Initialize(context.Background(), db, owners, required); err != nil {
		t.Fatalf("cannot initialize wallet: %+v", err)
	}
	return ctrl, db
}

func TestInitialize(t *testing.T) {
	cases := map[string]struct {
		owners   []custody.Address
		required uint32
		wantErr  *errors.Error
	}{
		"single owner": {
			owners:   []custody.Address{alice},
			required: 1,
		},
		"all owners required": {
			owners:   []custody.Address{alice, bert, carl},
			required: 3,
		},
		"no owners": {
			owners:   nil,
			required: 1,
			wantErr:  ErrEmptyOwnerSet,
		},
		"zero threshold": {
			owners:   []custody.Address{alice, bert},
			required: 0,
			wantErr:  ErrInvalidThreshold,
		},
		"threshold above owner count": {
			owners:   []custody.Address{alice, bert},
			required: 3,
			wantErr:  ErrInvalidThreshold,
		},
		"zero address owner": {
			owners:   []custody.Address{alice, custody.ZeroAddress()},
			required: 1,
			wantErr:  ErrZeroAddress,
		},
		"duplicated owner": {
			owners:   []custody.Address{alice, bert, alice},
			required: 2,
			wantErr:  ErrDuplicateOwner,
		},
		"malformed owner address": {
			owners:   []custody.Address{alice, custody.Address{0x01, 0x02}},
			required: 1,
			wantErr:  errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			db := store.MemStore()
			ctrl := NewController()
			err := ctrl.Initialize(context.Background(), db, tc.owners, tc.required)
			if !tc.wantErr.Is(err) {
				t.Fatalf("want %v error, got %+v", tc.wantErr, err)
			}
			if tc.wantErr != nil {
				// Failed initialization must not leave any trace.
				_, err := ctrl.OwnerCount(db)
				assert.IsErr(t, ErrNotInitialized, err)
				for _, o := range tc.owners {
					ok, err := ctrl.IsOwner(db, o)
					assert.Nil(t, err)
					assert.Equal(t, false, ok)
				}
				return
			}

			n, err := ctrl.OwnerCount(db)
			assert.Nil(t, err)
			assert.Equal(t, len(tc.owners), n)
			required, err := ctrl.RequiredConfirmations(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.required, required)
			owners, err := ctrl.Owners(db)
			assert.Nil(t, err)
			assert.Equal(t, tc.owners, owners)
		})
	}
}

// plainStore hides the CacheWrap method of the underlying store.
type plainStore struct {
	custody.KVStore
}

func TestMutationsRequireCacheableStore(t *testing.T) {
	ctx := context.Background()
	ctrl, db := newWallet(t, 1, alice)
	id, err := ctrl.SubmitTransaction(ctx, db, alice, dest, uint256.NewInt(1), nil)
	assert.Nil(t, err)

	plain := plainStore{KVStore: db}
	_, err = ctrl.SubmitTransaction(ctx, plain, alice, dest, uint256.NewInt(2), nil)
	assert.IsErr(t, errors.ErrHuman, err)
	err = ctrl.ConfirmTransaction(ctx, plain, alice, id)
	assert.IsErr(t, errors.ErrHuman, err)
	_, err = ctrl.ExecuteTransaction(ctx, plain, id)
	assert.IsErr(t, errors.ErrHuman, err)
	err = ctrl.Initialize(ctx, plainStore{KVStore: store.MemStore()}, []custody.Address{alice}, 1)
	assert.IsErr(t, errors.ErrHuman, err)

	n, err := ctrl.TransactionCount(db)
	assert.Nil(t, err)
	assert.Equal(t, uint64(1), n)
	count, err := ctrl.ConfirmationCount(db, id)
	assert.Nil(t, err)
	assert.Equal(t, uint32(0), count)
}

func TestInitializeOnce(t *testing.T) {
	ctrl, db := newWallet(t, 1, alice, bert)

	err := ctrl.Initialize(context.Background(), db, []custody.Address{carl}, 1)
	assert.IsErr(t, ErrAlreadyInitialized, err)

	ok, err := ctrl.IsOwner(db, carl)
	assert.Nil(t, err)
	assert.Equal(t, false, ok)
	n, err := ctrl.OwnerCount(db)
	assert.Nil(t, err)
	assert.Equal(t, 2, n)
}

func TestApprovalFlow(t *testing.T) {
	Convey("Given a wallet owned by alice, bert and carl requiring 2 confirmations", t, func() {
		ctx := context.Background()
		ctrl, db := newWallet(t, 2, alice, bert, carl)

		Convey("alice submits a transaction", func() {
			id, err := ctrl.SubmitTransaction(ctx, db, alice, dest, uint256.NewInt(100), []byte{})
			So(err, ShouldBeNil)
			So(id, ShouldEqual, 0)

			tx, err := ctrl.Transaction(db, 0)
			So(err, ShouldBeNil)
			So(tx.Destination, ShouldResemble, dest)
			So(tx.AmountValue().Uint64(), ShouldEqual, 100)
			So(tx.Executed, ShouldBeFalse)
			So(tx.ConfirmationCount, ShouldEqual, 0)

			Convey("execution without confirmations is rejected", func() {
				_, err := ctrl.ExecuteTransaction(ctx, db, 0)
				So(ErrInsufficientConfirmations.Is(err), ShouldBeTrue)
			})

			Convey("bert and carl confirm", func() {
				So(ctrl.ConfirmTransaction(ctx, db, bert, 0), ShouldBeNil)
				n, err := ctrl.ConfirmationCount(db, 0)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				Convey("one confirmation is not enough", func() {
					_, err := ctrl.ExecuteTransaction(ctx, db, 0)
					So(ErrInsufficientConfirmations.Is(err), ShouldBeTrue)
				})

				So(ctrl.ConfirmTransaction(ctx, db, carl, 0), ShouldBeNil)
				n, err = ctrl.ConfirmationCount(db, 0)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)

				confirmers, err := ctrl.Confirmers(db, 0)
				So(err, ShouldBeNil)
				So(confirmers, ShouldResemble, []custody.Address{bert, carl})

				Convey("the transaction can be executed exactly once", func() {
					executed, err := ctrl.ExecuteTransaction(ctx, db, 0)
					So(err, ShouldBeNil)
					So(executed.Executed, ShouldBeTrue)
					So(executed.ID, ShouldEqual, 0)

					tx, err := ctrl.Transaction(db, 0)
					So(err, ShouldBeNil)
					So(tx.Executed, ShouldBeTrue)

					_, err = ctrl.ExecuteTransaction(ctx, db, 0)
					So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)

					Convey("and no longer accepts confirmations", func() {
						err := ctrl.ConfirmTransaction(ctx, db, alice, 0)
						So(ErrAlreadyExecuted.Is(err), ShouldBeTrue)
						n, err := ctrl.ConfirmationCount(db, 0)
						So(err, ShouldBeNil)
						So(n, ShouldEqual, 2)
					})
				})

				Convey("a third confirmation still allows execution", func() {
					So(ctrl.ConfirmTransaction(ctx, db, alice, 0), ShouldBeNil)
					_, err := ctrl.ExecuteTransaction(ctx, db, 0)
					So(err, ShouldBeNil)
				})
			})

			Convey("a repeated confirmation is rejected and not counted", func() {
				So(ctrl.ConfirmTransaction(ctx, db, bert, 0), ShouldBeNil)
				err := ctrl.ConfirmTransaction(ctx, db, bert, 0)
				So(ErrAlreadyConfirmed.Is(err), ShouldBeTrue)
				n, err := ctrl.ConfirmationCount(db, 0)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)
			})

			Convey("a non owner cannot confirm", func() {
				err := ctrl.ConfirmTransaction(ctx, db, xeno, 0)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
				n, err := ctrl.ConfirmationCount(db, 0)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 0)
				ok, err := ctrl.IsConfirmed(db, 0, xeno)
				So(err, ShouldBeNil)
				So(ok, ShouldBeFalse)
			})

			Convey("a non owner is rejected before the ID is checked", func() {
				err := ctrl.ConfirmTransaction(ctx, db, xeno, 42)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			})

			Convey("the next transaction gets the next ID", func() {
				id, err := ctrl.SubmitTransaction(ctx, db, carl, dest, nil, []byte("call"))
				So(err, ShouldBeNil)
				So(id, ShouldEqual, 1)
				n, err := ctrl.TransactionCount(db)
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 2)
			})
		})

		Convey("unknown transactions are not found", func() {
			n, err := ctrl.TransactionCount(db)
			So(err, ShouldBeNil)

			_, err = ctrl.Transaction(db, n)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			_, err = ctrl.IsConfirmed(db, n, alice)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			_, err = ctrl.ConfirmationCount(db, n)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			err = ctrl.ConfirmTransaction(ctx, db, alice, n)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
			_, err = ctrl.ExecuteTransaction(ctx, db, n)
			So(errors.ErrNotFound.Is(err), ShouldBeTrue)
		})

		Convey("a non owner cannot submit", func() {
			_, err := ctrl.SubmitTransaction(ctx, db, xeno, dest, uint256.NewInt(1), nil)
			So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
			n, err := ctrl.TransactionCount(db)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})

		Convey("a malformed destination is rejected", func() {
			_, err := ctrl.SubmitTransaction(ctx, db, alice, custody.Address{1, 2, 3}, nil, nil)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
		})

		Convey("an oversized payload is rejected", func() {
			payload := make([]byte, DefaultMaxPayloadSize+1)
			_, err := ctrl.SubmitTransaction(ctx, db, alice, dest, nil, payload)
			So(errors.ErrInput.Is(err), ShouldBeTrue)
			n, err := ctrl.TransactionCount(db)
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
		})
	})
}

func TestSubmitCopiesInput(t *testing.T) {
	ctrl, db := newWallet(t, 1, alice)

	payload := []byte("payload")
	amount := uint256.NewInt(7)
	id, err := ctrl.SubmitTransaction(context.Background(), db, alice, dest, amount, payload)
	assert.Nil(t, err)

	payload[0] = 'X'
	amount.SetUint64(8)

	tx, err := ctrl.Transaction(db, id)
	assert.Nil(t, err)
	assert.Equal(t, []byte("payload"), tx.Payload)
	assert.Equal(t, uint64(7), tx.AmountValue().Uint64())

	// Modifying the returned copy does not change the stored transaction.
	tx.Executed = true
	again, err := ctrl.Transaction(db, id)
	assert.Nil(t, err)
	assert.Equal(t, false, again.Executed)
}

func TestLargeAmount(t *testing.T) {
	ctrl, db := newWallet(t, 1, alice)

	max := new(uint256.Int).SetAllOne()
	id, err := ctrl.SubmitTransaction(context.Background(), db, alice, dest, max, nil)
	assert.Nil(t, err)
	tx, err := ctrl.Transaction(db, id)
	assert.Nil(t, err)
	assert.Equal(t, 32, len(tx.Amount))
	if !tx.AmountValue().Eq(max) {
		t.Fatalf("want %s, got %s", max.Dec(), tx.AmountValue().Dec())
	}
}

// TestRandomOperations runs a long series of random calls and checks after
// each of them that the state is consistent.
func TestRandomOperations(t *testing.T) {
	owners := []custody.Address{alice, bert, carl, custodytest.NamedAddr("dora")}
	callers := append([]custody.Address{xeno}, owners...)
	const required = 3

	ctx := context.Background()
	ctrl, db := newWallet(t, required, owners...)
	rnd := rand.New(rand.NewSource(1))

	executed := make(map[uint64]bool)

	for i := 0; i < 2000; i++ {
		caller := callers[rnd.Intn(len(callers))]
		count, err := ctrl.TransactionCount(db)
		assert.Nil(t, err)
		// Sometimes use an ID that does not exist.
		id := uint64(rnd.Intn(int(count) + 2))

		switch rnd.Intn(4) {
		case 0:
			newID, err := ctrl.SubmitTransaction(ctx, db, caller, dest, uint256.NewInt(uint64(i)), nil)
			if caller.Equals(xeno) {
				assert.IsErr(t, errors.ErrUnauthorized, err)
			} else {
				assert.Nil(t, err)
				assert.Equal(t, count, newID)
			}
		case 1, 2:
			before, _ := ctrl.ConfirmationCount(db, id)
			err := ctrl.ConfirmTransaction(ctx, db, caller, id)
			after, _ := ctrl.ConfirmationCount(db, id)
			if err == nil {
				assert.Equal(t, before+1, after)
			} else {
				assert.Equal(t, before, after)
			}
		case 3:
			before, _ := ctrl.ConfirmationCount(db, id)
			_, err := ctrl.ExecuteTransaction(ctx, db, id)
			switch {
			case err == nil:
				if executed[id] {
					t.Fatalf("transaction %d executed twice", id)
				}
				if before < required {
					t.Fatalf("transaction %d executed with %d confirmations", id, before)
				}
				executed[id] = true
			case ErrInsufficientConfirmations.Is(err):
				if before >= required {
					t.Fatalf("transaction %d rejected with %d confirmations", id, before)
				}
			case ErrAlreadyExecuted.Is(err):
				if !executed[id] {
					t.Fatalf("transaction %d reported as executed", id)
				}
			case errors.ErrNotFound.Is(err):
				if id < count {
					t.Fatalf("transaction %d not found", id)
				}
			default:
				t.Fatalf("unexpected error: %+v", err)
			}
		}

		assertConsistent(t, ctrl, db, owners, executed)
	}
}

func assertConsistent(t testing.TB, ctrl *Controller, db custody.ReadOnlyKVStore, owners []custody.Address, executed map[uint64]bool) {
	t.Helper()

	count, err := ctrl.TransactionCount(db)
	assert.Nil(t, err)
	for id := uint64(0); id < count; id++ {
		tx, err := ctrl.Transaction(db, id)
		assert.Nil(t, err)
		var confirmed uint32
		for _, o := range owners {
			ok, err := ctrl.IsConfirmed(db, id, o)
			assert.Nil(t, err)
			if ok {
				confirmed++
			}
		}
		if confirmed != tx.ConfirmationCount {
			t.Fatalf("transaction %d: count %d, ledger %d", id, tx.ConfirmationCount, confirmed)
		}
		if tx.Executed != executed[id] {
			t.Fatalf("transaction %d: executed flag %v", id, tx.Executed)
		}
	}
}
