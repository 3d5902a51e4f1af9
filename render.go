package subst

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/clipperhouse/uax29/v2/graphemes"
	"github.com/mattn/go-runewidth"
)

// Hex digits needed to print a full pointer.
const ptrHexDigits = bits.UintSize / 4

// renderChain renders v through every spec chained at root, one segment
// write per chain node.
func (t *template) renderChain(root *formatSpec, v value) {
	spec := root
	for {
		t.renderOne(spec, v)
		if spec.next == indexInvalid {
			return
		}
		spec = &t.specs[spec.next]
	}
}

// renderOne fills a single placeholder slot. A panic anywhere in rendering
// replaces the slot with a diagnostic instead; a panic while building that
// diagnostic aborts the process.
func (t *template) renderOne(spec *formatSpec, v value) {
	defer func() {
		if r := recover(); r != nil {
			defer func() {
				if recover() != nil {
					abort()
				}
			}()
			t.segs[spec.target] = describePanic(r)
		}
	}()
	t.segs[spec.target] = render(v, spec)
}

// render produces the substituted text for one value under one spec,
// dispatching on the value category. An unset type code falls back to the
// category default.
func render(v value, spec *formatSpec) string {
	verb := spec.verb
	switch v.k {
	case kindByte:
		if verb == 0 {
			verb = 's'
		}
		switch verb {
		case 'd', 'u', 'o', 'x', 'X':
			return renderUint(v.u, spec, verb)
		default:
			return renderChar(v.u, spec, verb)
		}
	case kindInt:
		if verb == 0 {
			verb = 'd'
		}
		if verb == 'c' {
			return renderChar(uint64(v.i), spec, verb)
		}
		return renderInt(v.i, spec, verb)
	case kindUint:
		if verb == 0 {
			verb = 'u'
		}
		if verb == 'c' {
			return renderChar(v.u, spec, verb)
		}
		return renderUint(v.u, spec, verb)
	case kindFloat:
		if verb == 0 {
			verb = 'g'
		}
		return renderFloat(v.f, spec, verb)
	case kindPtr:
		if verb == 0 {
			verb = 'x'
		}
		sp := *spec
		if !sp.hasWidth {
			// Addresses print zero-padded to the full pointer width.
			sp.hasWidth = true
			sp.width = ptrHexDigits
			sp.fill = '0'
			sp.align = '>'
		}
		return renderUint(v.u, &sp, verb)
	default: // kindStr
		if verb == 0 {
			verb = 's'
		}
		return renderStr(v.s, spec, verb)
	}
}

// renderUint formats an unsigned value. Float codes convert by value;
// anything outside the numeric set renders as unsigned decimal wrapped in
// error markers.
func renderUint(u uint64, spec *formatSpec, verb byte) string {
	switch verb {
	case 'd', 'u', 'o', 'x', 'X':
		return formatInt(u, false, spec, verb, false)
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return formatFloat(float64(u), spec, verb, false)
	default:
		return formatInt(u, false, spec, 'u', true)
	}
}

// renderInt formats a signed value. The magnitude is taken through the
// unsigned type so the most negative value survives negation.
func renderInt(i int64, spec *formatSpec, verb byte) string {
	neg := i < 0
	mag := uint64(i)
	if neg {
		mag = -mag
	}
	switch verb {
	case 'd', 'u', 'o', 'x', 'X':
		return formatInt(mag, neg, spec, verb, false)
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return formatFloat(float64(i), spec, verb, false)
	default:
		return formatInt(mag, neg, spec, 'd', true)
	}
}

// renderFloat formats a floating-point value. Integer codes reinterpret the
// IEEE-754 bit pattern in the requested base; anything else renders g-style
// wrapped in error markers.
func renderFloat(f float64, spec *formatSpec, verb byte) string {
	switch verb {
	case 'e', 'E', 'f', 'F', 'g', 'G':
		return formatFloat(f, spec, verb, false)
	case 'd', 'u', 'o', 'x', 'X':
		return formatInt(math.Float64bits(f), false, spec, verb, false)
	default:
		return formatFloat(f, spec, 'g', true)
	}
}

// renderChar emits a single character. Values that do not fit in one
// unsigned byte fall back to marked unsigned decimal.
func renderChar(u uint64, spec *formatSpec, verb byte) string {
	if (verb == 'c' || verb == 's') && u <= 0xFF {
		if spec.hasPrecision && spec.precision == 0 {
			return alignValue("", spec, verb, false)
		}
		return alignValue(string(rune(u)), spec, verb, false)
	}
	return formatInt(u, false, spec, 'u', true)
}

// renderStr truncates to precision and pads to width. Any explicit type code
// other than 's' still renders the string, wrapped in error markers.
func renderStr(s string, spec *formatSpec, verb byte) string {
	if spec.hasPrecision {
		s = truncateGraphemes(s, spec.precision)
	}
	return alignValue(s, spec, 's', verb != 's')
}

// truncateGraphemes keeps the first n grapheme clusters of s, so precision
// counts user-perceived characters rather than bytes.
func truncateGraphemes(s string, n int) string {
	if n >= len(s) {
		return s // can't hold more clusters than bytes
	}
	end := 0
	g := graphemes.FromString(s)
	for n > 0 && g.Next() {
		end += len(g.Value())
		n--
	}
	return s[:end]
}

// formatInt renders magnitude and sign in the base selected by verb. The
// sign and base prefix are written by hand: negative values in any base are
// '-' followed by the magnitude, never a twos-complement bit pattern.
func formatInt(mag uint64, neg bool, spec *formatSpec, verb byte, marked bool) string {
	var sb strings.Builder
	writeSign(&sb, neg, spec.sign)
	writePrefix(&sb, spec.alternate, verb)

	base := 10
	switch verb {
	case 'o':
		base = 8
	case 'x', 'X':
		base = 16
	}
	digits := strconv.FormatUint(mag, base)
	if verb == 'X' {
		digits = strings.ToUpper(digits)
	}
	sb.WriteString(digits)
	return alignValue(sb.String(), spec, verb, marked)
}

// formatFloat renders a floating-point value with verb semantics matching
// Python's: e/f force a visible decimal point, g trims trailing zeros, and
// uppercase codes uppercase the exponent and inf/nan. The default precision
// is 6: significant digits for g, digits after the point for e and f.
func formatFloat(f float64, spec *formatSpec, verb byte, marked bool) string {
	neg := math.Signbit(f)
	mag := math.Abs(f)

	var sb strings.Builder
	writeSign(&sb, neg, spec.sign)

	prec := 6
	if spec.hasPrecision {
		prec = spec.precision
	}

	var digits string
	switch {
	case math.IsInf(mag, 0):
		digits = "inf"
	case math.IsNaN(mag):
		digits = "nan"
	default:
		switch verb {
		case 'e', 'E':
			digits = forcePoint(strconv.FormatFloat(mag, 'e', prec, 64))
		case 'f', 'F':
			digits = forcePoint(strconv.FormatFloat(mag, 'f', prec, 64))
		default: // 'g', 'G'
			if prec == 0 {
				prec = 1
			}
			digits = strconv.FormatFloat(mag, 'g', prec, 64)
		}
	}
	if verb == 'E' || verb == 'F' || verb == 'G' {
		digits = strings.ToUpper(digits)
	}
	sb.WriteString(digits)
	return alignValue(sb.String(), spec, verb, marked)
}

// forcePoint inserts a decimal point when precision 0 left none, before the
// exponent if there is one.
func forcePoint(digits string) string {
	if strings.ContainsRune(digits, '.') {
		return digits
	}
	if i := strings.IndexByte(digits, 'e'); i >= 0 {
		return digits[:i] + "." + digits[i:]
	}
	return digits + "."
}

func writeSign(sb *strings.Builder, neg bool, sign byte) {
	if neg {
		sb.WriteByte('-')
	} else if sign != '-' {
		sb.WriteByte(sign)
	}
}

func writePrefix(sb *strings.Builder, alternate bool, verb byte) {
	if !alternate {
		return
	}
	switch verb {
	case 'o':
		sb.WriteString("0o")
	case 'x':
		sb.WriteString("0x")
	case 'X':
		sb.WriteString("0X")
	}
}

// alignValue pads the rendered value to the spec width, measuring display
// cells. The marked flag wraps the padded result in error markers, so
// markers always sit outside the padding. With no explicit alignment,
// strings and characters go left and everything else right.
func alignValue(s string, spec *formatSpec, verb byte, marked bool) string {
	var sb strings.Builder
	if marked {
		sb.WriteString(markerOn)
	}

	cells := runewidth.StringWidth(s)
	if !spec.hasWidth || spec.width <= cells {
		sb.WriteString(s)
	} else {
		pad := spec.width - cells
		a := spec.align
		if a == 0 {
			if verb == 's' || verb == 'c' {
				a = '<'
			} else {
				a = '>'
			}
		}
		switch a {
		case '<':
			sb.WriteString(s)
			writeFill(&sb, spec.fill, pad)
		case '>':
			writeFill(&sb, spec.fill, pad)
			sb.WriteString(s)
		case '^':
			// Odd padding puts the extra fill character on the right.
			writeFill(&sb, spec.fill, pad/2)
			sb.WriteString(s)
			writeFill(&sb, spec.fill, pad-pad/2)
		default: // '='
			// The sign and the full alternate-form prefix stay glued to
			// the left margin; fill goes between them and the digits.
			lead := 0
			if verb != 's' && verb != 'c' && (strings.HasPrefix(s, "-") || spec.sign != '-') {
				lead = 1
			}
			if spec.alternate && (verb == 'o' || verb == 'x' || verb == 'X') {
				lead += 2
			}
			sb.WriteString(s[:lead])
			writeFill(&sb, spec.fill, pad)
			sb.WriteString(s[lead:])
		}
	}

	if marked {
		sb.WriteString(markerOff)
	}
	return sb.String()
}

func writeFill(sb *strings.Builder, fill rune, n int) {
	for ; n > 0; n-- {
		sb.WriteRune(fill)
	}
}
