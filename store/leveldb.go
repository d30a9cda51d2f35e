package store

import (
	"github.com/iov-one/custody"
	"github.com/iov-one/custody/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// LevelDB is the persistent store backing a wallet. Every cache wrap of it
// is written with a single synced leveldb batch, so a committed operation is
// either entirely on disk or not at all.
type LevelDB struct {
	db *leveldb.DB
}

var _ custody.CacheableKVStore = (*LevelDB)(nil)

// OpenLevelDB opens or creates a database in the given directory. An empty
// path opens an in-memory database.
func OpenLevelDB(path string) (*LevelDB, error) {
	var (
		db  *leveldb.DB
		err error
	)
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	if err != nil {
		return nil, errors.Wrapf(errors.ErrDatabase, "open %q: %s", path, err)
	}
	return &LevelDB{db: db}, nil
}

// Close releases the database. The store must not be used afterwards.
func (l *LevelDB) Close() error {
	if err := l.db.Close(); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "close: %s", err)
	}
	return nil
}

// Get returns nil if the key does not exist.
func (l *LevelDB) Get(key []byte) ([]byte, error) {
	val, err := l.db.Get(key, nil)
	switch {
	case err == leveldb.ErrNotFound:
		return nil, nil
	case err != nil:
		return nil, errors.Wrapf(errors.ErrDatabase, "get %X: %s", key, err)
	case val == nil:
		// An existing key must never read as a missing one.
		return []byte{}, nil
	}
	return val, nil
}

func (l *LevelDB) Has(key []byte) (bool, error) {
	ok, err := l.db.Has(key, nil)
	if err != nil {
		return false, errors.Wrapf(errors.ErrDatabase, "has %X: %s", key, err)
	}
	return ok, nil
}

func (l *LevelDB) Set(key, value []byte) error {
	if err := l.db.Put(key, value, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "set %X: %s", key, err)
	}
	return nil
}

func (l *LevelDB) Delete(key []byte) error {
	if err := l.db.Delete(key, nil); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "delete %X: %s", key, err)
	}
	return nil
}

// CacheWrap returns a scratch pad that is written to the database in one
// atomic batch.
func (l *LevelDB) CacheWrap() custody.KVCacheWrap {
	return NewBTreeCacheWrap(l, l.NewBatch(), nil)
}

// NewBatch returns an atomic batch writing to this database.
func (l *LevelDB) NewBatch() custody.Batch {
	return &levelBatch{db: l.db, batch: new(leveldb.Batch)}
}

type levelBatch struct {
	db    *leveldb.DB
	batch *leveldb.Batch
}

func (b *levelBatch) Set(key, value []byte) error {
	b.batch.Put(key, value)
	return nil
}

func (b *levelBatch) Delete(key []byte) error {
	b.batch.Delete(key)
	return nil
}

func (b *levelBatch) Write() error {
	defer b.batch.Reset()
	if err := b.db.Write(b.batch, &opt.WriteOptions{Sync: true}); err != nil {
		return errors.Wrapf(errors.ErrDatabase, "batch write: %s", err)
	}
	return nil
}
