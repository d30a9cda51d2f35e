package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLevelDBPersistsCommittedCache(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")

	db, err := OpenLevelDB(dir)
	require.NoError(t, err)

	committed := db.CacheWrap()
	require.NoError(t, committed.Set([]byte("tx:0"), []byte("submitted")))
	require.NoError(t, committed.Write())

	discarded := db.CacheWrap()
	require.NoError(t, discarded.Set([]byte("tx:1"), []byte("submitted")))
	discarded.Discard()

	require.NoError(t, db.Close())

	db, err = OpenLevelDB(dir)
	require.NoError(t, err)
	defer db.Close()

	val, err := db.Get([]byte("tx:0"))
	require.NoError(t, err)
	require.Equal(t, []byte("submitted"), val)

	has, err := db.Has([]byte("tx:1"))
	require.NoError(t, err)
	require.False(t, has)
}

func TestLevelDBInMemory(t *testing.T) {
	db, err := OpenLevelDB("")
	require.NoError(t, err)
	defer db.Close()

	val, err := db.Get([]byte("missing"))
	require.NoError(t, err)
	require.Nil(t, val)

	require.NoError(t, db.Set([]byte("k"), []byte("v")))
	require.NoError(t, db.Delete([]byte("k")))
	has, err := db.Has([]byte("k"))
	require.NoError(t, err)
	require.False(t, has)
}
