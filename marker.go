package subst

import (
	"fmt"
	"os"
	"strings"
)

// Recoverable failures are reported in-band: a short diagnostic token
// wrapped in VT-220 reverse-video escapes, so a human scanning output can
// spot a corrupted substitution without the program crashing.
const (
	markerOn  = "\x1b[7m"
	markerOff = "\x1b[27m"
)

const missingMarker = markerOn + "[missing]" + markerOff

// mark wraps s in the error-marker escapes.
func mark(s string) string {
	return markerOn + s + markerOff
}

// describePanic turns a recovered panic value into a marked diagnostic of
// the form "[type: message]". Combinations that would read badly are
// collapsed first.
func describePanic(r any) string {
	var typ, what string
	switch v := r.(type) {
	case error:
		typ = trimTypeName(fmt.Sprintf("%T", v))
		what = v.Error()
	case string:
		typ = "string panic"
		what = v
	default:
		typ = trimTypeName(fmt.Sprintf("%T", r))
		what = fmt.Sprint(r)
	}

	switch {
	case typ == "" && what == "":
		typ = "unidentifiable panic"
	case what == typ:
		what = ""
		if typ == "errorString" {
			typ = "generic error"
		}
	case what == "":
		what = typ
		typ = "unusual panic type"
	}
	if typ == "errorString" {
		typ = "error"
	}

	msg := "[" + typ
	if typ != "" && what != "" {
		msg += ": "
	}
	msg += what + "]"
	return mark(msg)
}

// trimTypeName strips the pointer marker and package qualifier from a %T
// name, leaving just the bare type.
func trimTypeName(t string) string {
	t = strings.TrimPrefix(t, "*")
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return t
}

// abort terminates the process. It is called only when building an error
// marker itself panicked, the one condition the no-panic contract cannot
// absorb.
func abort() {
	os.Stderr.WriteString("subst: panic while building an error marker\n")
	os.Exit(2)
}
