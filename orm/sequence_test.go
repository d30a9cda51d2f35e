package orm

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/store"
	"github.com/stretchr/testify/require"
)

func TestSequence(t *testing.T) {
	cases := []struct {
		bucket     string
		init       uint64
		increments uint64
	}{
		0: {"txs", 0, 22},
		1: {"events", 0, 11},
		2: {"txs", 22, 18},
		3: {"events", 11, 248},
	}

	db := store.MemStore()
	for i, tc := range cases {
		t.Run(fmt.Sprintf("case-%d", i), func(t *testing.T) {
			s := NewSequence(tc.bucket, "id")
			orig, err := s.Latest(db)
			require.NoError(t, err)
			require.Equal(t, tc.init, orig)

			var (
				val  uint64
				prev = EncodeSequence(orig)
			)
			for i := uint64(0); i < tc.increments; i++ {
				raw, err := s.NextVal(db)
				require.NoError(t, err)
				require.Equal(t, 1, bytes.Compare(raw, prev), "keys must grow")
				prev = raw
				val, err = DecodeSequence(raw)
				require.NoError(t, err)
			}
			require.Equal(t, tc.init+tc.increments, val)

			latest, err := s.Latest(db)
			require.NoError(t, err)
			require.Equal(t, val, latest)
		})
	}
}

func TestDecodeSequenceRejectsMalformed(t *testing.T) {
	_, err := DecodeSequence([]byte{1, 2, 3})
	require.True(t, errors.ErrModel.Is(err))
}
