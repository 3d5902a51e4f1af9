// Package subst renders {}-style substitution templates, in the manner of
// Python's str.format, without ever panicking on malformed input.
//
// The central entry points are [Format] and [Write], which accept a template
// string and variadic arguments of any type:
//
//	subst.Format("{} bytes read from {}", n, path)
//	subst.Format("{:>8} | {:<8}", "right", "left")
//	subst.Format("{:#06x}", 255) // "0x00ff"
//
// # Substitution language
//
// A substitution is written {index:spec}. Both parts are optional: {} takes
// the next unused argument, {2} takes argument 2, and {m} takes the current
// system error (see below). The spec grammar is
//
//	spec  := [[fill]align][sign]['#']['0'][width]['.'precision][type]
//	align := '<' | '>' | '=' | '^'
//	sign  := '+' | '-' | ' '
//	type  := 's' 'c' 'd' 'o' 'x' 'X' 'e' 'E' 'f' 'F' 'g' 'G'
//
// Doubled braces escape themselves: "{{" renders as "{". Unlike printf-style
// flags, sign, '#', and '0' must appear in exactly that order. '0' is
// shorthand for zero-fill with sign-aware alignment, and '=' alignment keeps
// the sign and any '#' base prefix glued to the left margin while fill
// characters are inserted before the digits.
//
// The same argument may be substituted at several positions with independent
// specs: subst.Format("{0} {0:#x}", 200) renders "200 0xc8".
//
// # Argument categories
//
// Every argument is mapped onto one of six categories before rendering:
// unsigned integer, signed integer, floating point, byte, string, and
// pointer. Integer and floating-point kinds map the obvious way; byte covers
// uint8; pointers of any type render as their address, zero-padded to the
// full pointer width. An error or [fmt.Stringer] argument renders its message
// text, and anything else falls back to its fmt.Sprint form. Width counts
// terminal display cells and string precision counts grapheme clusters, so
// wide and combining characters align correctly.
//
// # Errors never escape
//
// Format always returns a usable string. Malformed substitutions, missing
// arguments, type codes that do not fit the argument, and panicking String or
// Error methods are each contained at the offending substitution and rendered
// as a short diagnostic token wrapped in VT reverse-video escapes, so a
// corrupted field is visible in output without taking the program down. The
// only fatal condition is a failure while building such a diagnostic, which
// terminates the process.
//
// # The {m} substitution
//
// {m} renders the description of the current system error, resolved before
// any argument is inspected. Go does not carry an ambient errno, so the value
// comes from [ErrnoSource], or explicitly from [FormatErrno]:
//
//	if err := closeFD(fd); err != nil {
//		msg := subst.FormatErrno(err, "close {}: {m}", fd)
//	}
package subst
