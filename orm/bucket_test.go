package orm

import (
	"testing"

	"github.com/iov-one/custody/custodytest/assert"
	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
)

func TestBucketName(t *testing.T) {
	assert.Panics(t, func() {
		// An invalid bucket name must crash.
		NewBucket("l33t", &Counter{})
	})
}

func TestBucketPutOne(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counters", &Counter{})

	assert.Nil(t, b.Put(db, []byte("a"), &Counter{Count: 7, Label: "seven"}))

	var got Counter
	assert.Nil(t, b.One(db, []byte("a"), &got))
	assert.Equal(t, Counter{Count: 7, Label: "seven"}, got)

	has, err := b.Has(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, true, has)

	err = b.One(db, []byte("b"), &got)
	assert.IsErr(t, errors.ErrNotFound, err)

	obj, err := b.Get(db, []byte("b"))
	assert.Nil(t, err)
	assert.Nil(t, obj)

	obj, err = b.Get(db, []byte("a"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("a"), obj.Key())
	assert.Equal(t, int64(7), obj.Value().(*Counter).Count)
}

func TestBucketCannotSaveInvalid(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counters", &Counter{})

	err := b.Put(db, []byte("a"), &Counter{Count: -1})
	assert.FieldError(t, err, "Value", errors.ErrModel)

	err = b.Put(db, nil, &Counter{Count: 1})
	assert.FieldError(t, err, "Key", errors.ErrEmpty)
}

func TestBucketNameCollision(t *testing.T) {
	db := store.MemStore()
	a := NewBucket("alpha", &Counter{})
	b := NewBucket("beta", &Counter{})

	assert.Nil(t, a.Put(db, []byte("key"), &Counter{Count: 1}))
	assert.Nil(t, b.Put(db, []byte("key"), &Counter{Count: 2}))

	var got Counter
	assert.Nil(t, a.One(db, []byte("key"), &got))
	assert.Equal(t, int64(1), got.Count)
	assert.Nil(t, b.One(db, []byte("key"), &got))
	assert.Equal(t, int64(2), got.Count)

	assert.Nil(t, a.Delete(db, []byte("key")))
	has, err := a.Has(db, []byte("key"))
	assert.Nil(t, err)
	assert.Equal(t, false, has)
}

func TestBucketRejectsCorruptValue(t *testing.T) {
	db := store.MemStore()
	b := NewBucket("counters", &Counter{})
	assert.Nil(t, db.Set(b.DBKey([]byte("x")), []byte{0xff, 0xff, 0xff}))

	var got Counter
	err := b.One(db, []byte("x"), &got)
	assert.IsErr(t, errors.ErrModel, err)
}
