/*
Package orm provides an easy to use db wrapper

Break state space into prefixed sections called Buckets.
* Each bucket contains only one type of object.
* Objects are protobuf messages, addressed by a primary key.
* Sequences produce ordered keys for append-only buckets.
*/
package orm

import (
	"fmt"
	"regexp"

	"github.com/gogo/protobuf/proto"
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Bucket is a generic holder that stores data under a prefixed subspace of
// the DB.
//
// This is a generic building block that should generally
// be embedded in a type-safe wrapper to ensure all data
// is the same type.
type Bucket struct {
	name   string
	prefix []byte
	proto  Cloneable
}

// NewBucket creates a bucket to store data. All values must be of the same
// type as model.
func NewBucket(name string, model Model) Bucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("Illegal bucket: %s", name))
	}

	return Bucket{
		name:   name,
		prefix: append([]byte(name), ':'),
		proto:  NewSimpleObj(nil, model),
	}
}

// Name returns the name of this bucket.
func (b Bucket) Name() string {
	return b.name
}

// DBKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consequetive calls to overwrite the same byte array.
func (b Bucket) DBKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

// Get one element. Nil is returned if there is no value under given key.
func (b Bucket) Get(db custody.ReadOnlyKVStore, key []byte) (Object, error) {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return nil, err
	}
	if bz == nil {
		return nil, nil
	}
	return b.Parse(key, bz)
}

// One loads the value stored under given key into dest. ErrNotFound is
// returned if no such value exists.
func (b Bucket) One(db custody.ReadOnlyKVStore, key []byte, dest Model) error {
	bz, err := db.Get(b.DBKey(key))
	if err != nil {
		return err
	}
	if bz == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s %X", b.name, key)
	}
	if err := proto.Unmarshal(bz, dest); err != nil {
		return errors.Wrapf(errors.ErrModel, "%s %X: %s", b.name, key, err)
	}
	return nil
}

// Has returns true if a value is stored under given key.
func (b Bucket) Has(db custody.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.DBKey(key))
}

// Parse takes a key and value data and reconstructs the object this Bucket
// would return.
func (b Bucket) Parse(key, value []byte) (Object, error) {
	obj := b.proto.Clone()
	if err := proto.Unmarshal(value, obj.Value()); err != nil {
		return nil, errors.Wrapf(errors.ErrModel, "%s %X: %s", b.name, key, err)
	}
	obj.SetKey(key)
	return obj, nil
}

// Save will write a model, it must be of the same type as proto
func (b Bucket) Save(db custody.KVStore, obj Object) error {
	if err := obj.Validate(); err != nil {
		return err
	}
	bz, err := proto.Marshal(obj.Value())
	if err != nil {
		return errors.Wrapf(errors.ErrModel, "%s marshal: %s", b.name, err)
	}
	return db.Set(b.DBKey(obj.Key()), bz)
}

// Put validates and writes a model under given key.
func (b Bucket) Put(db custody.KVStore, key []byte, m Model) error {
	return b.Save(db, NewSimpleObj(key, m))
}

// Delete will remove the value at a key
func (b Bucket) Delete(db custody.KVStore, key []byte) error {
	return db.Delete(b.DBKey(key))
}
