package assert

import (
	"fmt"
	"testing"

	"github.com/iov-one/custody/errors"
)

func TestIsErr(t *testing.T) {
	cases := map[string]struct {
		ErrWant  error
		ErrGot   error
		WantFail bool
	}{
		"same error": {
			ErrWant:  errors.ErrEmpty,
			ErrGot:   errors.ErrEmpty,
			WantFail: false,
		},
		"wrapped error": {
			ErrWant:  errors.ErrNotFound,
			ErrGot:   errors.Wrap(errors.ErrNotFound, "transaction 1"),
			WantFail: false,
		},
		"different errors": {
			ErrWant:  errors.ErrNotFound,
			ErrGot:   errors.ErrUnauthorized,
			WantFail: true,
		},
		"nil want": {
			ErrWant:  nil,
			ErrGot:   errors.ErrUnauthorized,
			WantFail: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			tt := &testTester{TB: t}
			func() {
				defer func() { _ = recover() }()
				IsErr(tt, tc.ErrWant, tc.ErrGot)
			}()
			if tt.failed != tc.WantFail {
				t.Fatalf("want failure %v, got %v", tc.WantFail, tt.failed)
			}
		})
	}
}

// testTester records a failure instead of stopping the test.
type testTester struct {
	testing.TB
	failed bool
}

func (t *testTester) Helper() {}

func (t *testTester) Fatal(args ...interface{}) {
	t.failed = true
	panic(fmt.Sprint(args...))
}

func (t *testTester) Fatalf(format string, args ...interface{}) {
	t.failed = true
	panic(fmt.Sprintf(format, args...))
}
