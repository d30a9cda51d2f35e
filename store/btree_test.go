package store

import (
	"testing"

	"github.com/iov-one/custody"
	. "github.com/smartystreets/goconvey/convey"
)

func TestCacheWrap(t *testing.T) {
	Convey("Given a store with committed data", t, func() {
		base := MemStore()
		So(base.Set([]byte("owner"), []byte("alice")), ShouldBeNil)
		So(base.Set([]byte("count"), []byte{1}), ShouldBeNil)

		cache := base.CacheWrap()

		Convey("reads fall through to the backing store", func() {
			val, err := cache.Get([]byte("owner"))
			So(err, ShouldBeNil)
			So(string(val), ShouldEqual, "alice")
		})

		Convey("writes are visible only in the cache until written", func() {
			So(cache.Set([]byte("count"), []byte{2}), ShouldBeNil)
			So(cache.Delete([]byte("owner")), ShouldBeNil)

			assertValue(cache, "count", []byte{2})
			assertMissing(cache, "owner")
			assertValue(base, "count", []byte{1})
			assertValue(base, "owner", []byte("alice"))

			Convey("and reach the backing store on write", func() {
				So(cache.Write(), ShouldBeNil)
				assertValue(base, "count", []byte{2})
				assertMissing(base, "owner")
			})

			Convey("and are dropped on discard", func() {
				cache.Discard()
				assertValue(base, "count", []byte{1})
				assertValue(base, "owner", []byte("alice"))
			})
		})

		Convey("nested wraps commit only into their parent", func() {
			inner := cache.CacheWrap()
			So(inner.Set([]byte("tx"), []byte("0")), ShouldBeNil)
			So(inner.Write(), ShouldBeNil)

			assertValue(cache, "tx", []byte("0"))
			assertMissing(base, "tx")
		})

		Convey("values are copied on set", func() {
			val := []byte("mutable")
			So(cache.Set([]byte("payload"), val), ShouldBeNil)
			val[0] = 'X'
			assertValue(cache, "payload", []byte("mutable"))
		})
	})
}

func assertValue(db custody.ReadOnlyKVStore, key string, want []byte) {
	got, err := db.Get([]byte(key))
	So(err, ShouldBeNil)
	So(got, ShouldResemble, want)
	has, err := db.Has([]byte(key))
	So(err, ShouldBeNil)
	So(has, ShouldBeTrue)
}

func assertMissing(db custody.ReadOnlyKVStore, key string) {
	got, err := db.Get([]byte(key))
	So(err, ShouldBeNil)
	So(got, ShouldBeNil)
	has, err := db.Has([]byte(key))
	So(err, ShouldBeNil)
	So(has, ShouldBeFalse)
}

func TestNonAtomicBatch(t *testing.T) {
	db := MemStore()
	b := NewNonAtomicBatch(db)
	if err := b.Set([]byte("a"), []byte("1")); err != nil {
		t.Fatal(err)
	}
	if err := b.Delete([]byte("b")); err != nil {
		t.Fatal(err)
	}
	if n := len(b.ShowOps()); n != 2 {
		t.Fatalf("want 2 pending ops, got %d", n)
	}
	if err := b.Write(); err != nil {
		t.Fatal(err)
	}
	if n := len(b.ShowOps()); n != 0 {
		t.Fatalf("write must reset the batch, got %d ops", n)
	}
	if val, _ := db.Get([]byte("a")); string(val) != "1" {
		t.Fatalf("unexpected value %q", val)
	}
}
