package subst

import "fmt"

// ErrnoSource supplies the error rendered by the {m} substitution. [Format]
// reads it exactly once, at call entry, before any argument is inspected, so
// argument expressions cannot clobber the value. The Go runtime does not
// preserve libc errno across calls, so the default source reports no error;
// programs that track a current system error can install their own source,
// or bind an explicit error per call with [FormatErrno].
var ErrnoSource = func() error { return nil }

// noError mirrors what strerror(0) reports.
const noError = "no error"

// currentErrno reads ErrnoSource, containing any panic the hook raises.
func currentErrno() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("errno source panicked: %v", r)
		}
	}()
	if ErrnoSource == nil {
		return nil
	}
	return ErrnoSource()
}

// errnoText resolves err to the text substituted for {m}. A panicking Error
// method becomes the diagnostic itself, already marker-wrapped.
func errnoText(err error) (s string) {
	defer func() {
		if r := recover(); r != nil {
			s = describePanic(r)
		}
	}()
	if err == nil {
		return noError
	}
	return err.Error()
}
