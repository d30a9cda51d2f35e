/*
Package store provides the storage backends of a wallet.

BTreeCacheWrap is a scratch pad over any store: all writes are kept in a
google/btree and only reach the backing store when Write is called. Discard
drops them. This is what makes every wallet operation all-or-nothing.

MemStore is an in-memory store, LevelDB a persistent one.
*/
package store
