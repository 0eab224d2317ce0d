package errors

import (
	stdlib "errors"
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestCause(t *testing.T) {
	std := stdlib.New("this is a stdlib error")

	cases := map[string]struct {
		err  error
		root error
	}{
		"Errors are self-causing": {
			err:  ErrNotFound,
			root: ErrNotFound,
		},
		"Wrap reveals root cause": {
			err:  Wrap(ErrNotFound, "foo"),
			root: ErrNotFound,
		},
		"Cause works for stderr as root": {
			err:  Wrap(std, "Some helpful text"),
			root: std,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := errors.Cause(tc.err); got != tc.root {
				t.Fatal("unexpected result")
			}
		})
	}
}

func TestErrorIs(t *testing.T) {
	cases := map[string]struct {
		a      *Error
		b      error
		wantIs bool
	}{
		"instance of the same error": {
			a:      ErrNotFound,
			b:      ErrNotFound,
			wantIs: true,
		},
		"two different coded errors": {
			a:      ErrNotFound,
			b:      ErrModel,
			wantIs: false,
		},
		"successful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrNotFound, "gone"),
			wantIs: true,
		},
		"successful comparison to a double wrapped error": {
			a:      ErrUnauthorized,
			b:      Wrap(Wrapf(ErrUnauthorized, "signer %d", 1), "fund"),
			wantIs: true,
		},
		"unsuccessful comparison to a wrapped error": {
			a:      ErrNotFound,
			b:      errors.Wrap(ErrOverflow, "too big"),
			wantIs: false,
		},
		"not equal to stdlib error": {
			a:      ErrNotFound,
			b:      fmt.Errorf("stdlib error"),
			wantIs: false,
		},
		"not equal to a wrapped stdlib error": {
			a:      ErrNotFound,
			b:      errors.Wrap(fmt.Errorf("stdlib error"), "wrapped"),
			wantIs: false,
		},
		"nil is nil": {
			a:      nil,
			b:      nil,
			wantIs: true,
		},
		"nil is any error nil": {
			a:      nil,
			b:      (*wrappedError)(nil),
			wantIs: true,
		},
		"nil is not not-nil": {
			a:      nil,
			b:      ErrState,
			wantIs: false,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := tc.a.Is(tc.b); got != tc.wantIs {
				t.Fatalf("unexpected result - got:%v want: %v", got, tc.wantIs)
			}
		})
	}
}

func TestCode(t *testing.T) {
	cases := map[string]struct {
		err  error
		want uint32
	}{
		"root error":         {err: ErrUnauthorized, want: 2},
		"wrapped root error": {err: Wrap(ErrInsufficientAmount, "transfer"), want: 12},
		"stdlib error":       {err: stdlib.New("boom"), want: 1},
		"wrapped stdlib":     {err: Wrap(stdlib.New("boom"), "ctx"), want: 1},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			if got := Code(tc.err); got != tc.want {
				t.Fatalf("want code %d, got %d", tc.want, got)
			}
		})
	}
}

func TestRegisterDuplicatedCodePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("registering an already used code must panic")
		}
	}()
	Register(ErrNotFound.ABCICode(), "again")
}

func TestWrapAttachesStackOnce(t *testing.T) {
	err := Wrap(Wrap(ErrEmpty, "inner"), "outer")
	if stackTrace(err) == nil {
		t.Fatal("stack trace not attached")
	}
	if got, want := err.Error(), "outer: inner: value is empty"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
	if Wrap(nil, "nothing") != nil {
		t.Fatal("wrapping nil must return nil")
	}
}

func TestRecover(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		panic("boom")
	}
	err := run()
	if !ErrPanic.Is(err) {
		t.Fatalf("want panic error, got %+v", err)
	}
	if Redact(err) != ErrPanic {
		t.Fatalf("panic details not redacted: %v", Redact(err))
	}
	if Redact(ErrState) != ErrState {
		t.Fatal("non panic error must not be redacted")
	}
}

func TestABCIInfo(t *testing.T) {
	cases := map[string]struct {
		err      error
		debug    bool
		wantCode uint32
		wantLog  string
	}{
		"no error": {
			err:      nil,
			wantCode: SuccessABCICode,
			wantLog:  "",
		},
		"registered error": {
			err:      Wrap(ErrNotFound, "account"),
			wantCode: 3,
			wantLog:  "account: not found",
		},
		"stdlib error is hidden": {
			err:      stdlib.New("disk is on fire"),
			wantCode: 1,
			wantLog:  "internal error",
		},
		"stdlib error in debug mode": {
			err:      stdlib.New("disk is on fire"),
			debug:    true,
			wantCode: 1,
			wantLog:  "disk is on fire",
		},
		"panic is redacted": {
			err:      Wrapf(ErrPanic, "index out of range"),
			wantCode: 111222,
			wantLog:  "panic",
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			code, log := ABCIInfo(tc.err, tc.debug)
			if code != tc.wantCode {
				t.Fatalf("want code %d, got %d", tc.wantCode, code)
			}
			if log != tc.wantLog {
				t.Fatalf("want log %q, got %q", tc.wantLog, log)
			}
		})
	}
}

func TestABCIError(t *testing.T) {
	if ABCIError(SuccessABCICode, "") != nil {
		t.Fatal("success code must not produce an error")
	}

	code, log := ABCIInfo(Wrap(ErrInsufficientAmount, "transfer"), false)
	err := ABCIError(code, log)
	if !ErrInsufficientAmount.Is(err) {
		t.Fatalf("want insufficient amount, got %+v", err)
	}
	if err.Error() != log {
		t.Fatalf("want log %q, got %q", log, err.Error())
	}
	if Code(err) != 12 {
		t.Fatalf("want code 12, got %d", Code(err))
	}

	unknown := ABCIError(987654, "who knows")
	if ErrNotFound.Is(unknown) || Code(unknown) != 1 {
		t.Fatalf("unknown code must be internal, got %d", Code(unknown))
	}
}
