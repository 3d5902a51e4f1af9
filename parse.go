package subst

import (
	"strings"
	"unicode/utf8"
)

// Sentinel argument indices.
const (
	indexInvalid = -1 // spec is ill-formed and must not be rendered
	indexErrno   = -2 // spec renders the current system error
)

// Widths and precisions saturate here instead of overflowing. Anything this
// large would fail to allocate anyway.
const maxNumber = 1 << 30

// formatSpec is the parsed form of one substitution.
type formatSpec struct {
	argIndex int // argument position, indexErrno, or indexInvalid
	next     int // arena index of the next spec sharing argIndex, or indexInvalid
	target   int // segment slot receiving this spec's rendered output

	width     int
	precision int
	verb      byte // type code, 0 when unset
	align     byte // '<' '>' '=' '^', 0 when unset
	sign      byte // '+' '-' ' '
	fill      rune

	hasWidth     bool
	hasPrecision bool
	alternate    bool
}

func newSpec() formatSpec {
	return formatSpec{
		argIndex: indexInvalid,
		next:     indexInvalid,
		target:   indexInvalid,
		fill:     ' ',
		sign:     '-',
	}
}

// template holds the parsed form of one format call: literal segments with
// empty placeholder slots interleaved, and a flat spec arena. Slots [0,nargs)
// of the arena are the root spec for each argument; specs repeating an
// already-seen index are appended past nargs and linked through next.
// Everything here is transient, built fresh per call.
type template struct {
	segs      []string
	specs     []formatSpec
	errnoRoot formatSpec
	nargs     int
}

// root returns the head of the spec chain for an argument index.
func (t *template) root(argIndex int) *formatSpec {
	if argIndex == indexErrno {
		return &t.errnoRoot
	}
	return &t.specs[argIndex]
}

// parse scans tmpl once and builds the segment and spec tables. It never
// fails: malformed substitutions are echoed back as marked literal text and
// scanning resumes past the matching close brace.
func parse(tmpl string, nargs int) *template {
	t := &template{
		nargs:     nargs,
		segs:      make([]string, 0, nargs*2+1),
		specs:     make([]formatSpec, nargs),
		errnoRoot: newSpec(),
	}
	for i := range t.specs {
		t.specs[i] = newSpec()
	}

	var cseg strings.Builder
	defaultIndex := 0
	var extras []formatSpec

	i := 0
	for i < len(tmpl) {
		switch c := tmpl[i]; {
		case c == '{':
			if i+1 < len(tmpl) && tmpl[i+1] == '{' {
				cseg.WriteByte('{')
				i += 2
				continue
			}
			spec := newSpec()
			end, usedDefault := parseSubst(tmpl, i+1, defaultIndex, &spec)
			switch {
			case spec.argIndex == indexInvalid:
				cseg.WriteString(mark(tmpl[i:end]))
			case spec.argIndex >= nargs && spec.argIndex != indexErrno:
				// Well-formed, but the argument isn't there.
				cseg.WriteString(missingMarker)
			default:
				t.segs = append(t.segs, cseg.String(), "")
				cseg.Reset()
				spec.target = len(t.segs) - 1
				root := t.root(spec.argIndex)
				if root.argIndex == indexInvalid {
					*root = spec
				} else {
					extras = append(extras, spec)
				}
			}
			// Only a spec that actually used the default index advances
			// the counter; explicit indices never perturb it.
			if usedDefault {
				defaultIndex++
			}
			i = end
		case c == '}':
			if i+1 < len(tmpl) && tmpl[i+1] == '}' {
				cseg.WriteByte('}')
				i += 2
			} else {
				cseg.WriteString(mark("}"))
				i++
			}
		default:
			cseg.WriteByte(c)
			i++
		}
	}
	t.segs = append(t.segs, cseg.String())

	// Chain repeated indices in scan order off the root spec.
	for _, s := range extras {
		t.specs = append(t.specs, s)
		ind := len(t.specs) - 1
		other := t.root(s.argIndex)
		for other.next != indexInvalid {
			other = &t.specs[other.next]
		}
		other.next = ind
	}
	return t
}

// parseSubst parses one substitution. p points one past the opening brace;
// the caller has already handled doubled braces. It returns the position one
// past the terminating close brace and whether the substitution consumed the
// default argument index. On a malformed spec the spec is reset to invalid
// and the returned position is one past the brace matching the opener,
// tracked depth-aware so stray braces inside the bad spec do not cut the
// recovery short.
func parseSubst(s string, p int, defaultIndex int, spec *formatSpec) (int, bool) {
	usedDefault := true
	spec.argIndex = defaultIndex

	if p < len(s) && isDigit(s[p]) {
		spec.argIndex, p = scanNumber(s, p)
		usedDefault = false
	} else if p < len(s) && s[p] == 'm' {
		spec.argIndex = indexErrno
		p++
		usedDefault = false
	}

	if p < len(s) && s[p] == '}' {
		return p + 1, usedDefault
	}
	if p >= len(s) || s[p] != ':' {
		return parseFailure(s, p, spec)
	}
	p++

	if p >= len(s) || s[p] == '{' {
		return parseFailure(s, p, spec)
	}
	if s[p] == '}' { // "{:}" is an empty spec
		return p + 1, usedDefault
	}

	// Fill and alignment take two-rune lookahead: when the second rune is an
	// alignment character the first is the fill; otherwise a leading
	// alignment character stands alone and the fill defaults to space.
	r0, w0 := utf8.DecodeRuneInString(s[p:])
	if p+w0 >= len(s) {
		return parseFailure(s, p, spec)
	}
	r1, w1 := utf8.DecodeRuneInString(s[p+w0:])
	if isAlign(r1) {
		spec.align = byte(r1)
		spec.fill = r0
		p += w0 + w1
	} else if isAlign(r0) {
		spec.align = byte(r0)
		p += w0
	}

	// Sign, '#', and '0' may each appear once, in exactly this order.
	if p < len(s) && (s[p] == '+' || s[p] == '-' || s[p] == ' ') {
		spec.sign = s[p]
		p++
	}
	if p < len(s) && s[p] == '#' {
		spec.alternate = true
		p++
	}
	if p < len(s) && s[p] == '0' {
		// '0' is shorthand for fill '0' with sign-aware alignment.
		// Combined with an explicit alignment it is rejected rather than
		// second-guessed.
		if spec.align != 0 {
			return parseFailure(s, p, spec)
		}
		spec.align = '='
		spec.fill = '0'
		p++
	}

	if p < len(s) && isDigit(s[p]) {
		spec.hasWidth = true
		spec.width, p = scanNumber(s, p)
	}

	if p < len(s) && s[p] == '.' {
		p++
		if p >= len(s) || !isDigit(s[p]) {
			return parseFailure(s, p, spec) // bare trailing '.'
		}
		spec.hasPrecision = true
		spec.precision, p = scanNumber(s, p)
	}

	if p < len(s) && isVerb(s[p]) {
		spec.verb = s[p]
		p++
	}

	if p < len(s) && s[p] == '}' {
		return p + 1, usedDefault
	}
	return parseFailure(s, p, spec)
}

// parseFailure invalidates spec and skips to one past the close brace
// matching the substitution's opener, or to end of input.
func parseFailure(s string, p int, spec *formatSpec) (int, bool) {
	*spec = newSpec()
	depth := 1
	for p < len(s) {
		c := s[p]
		p++
		if c == '{' {
			depth++
		}
		if c == '}' {
			depth--
			if depth == 0 {
				break
			}
		}
	}
	return p, false
}

func scanNumber(s string, p int) (int, int) {
	n := 0
	for p < len(s) && isDigit(s[p]) {
		if n < maxNumber {
			n = n*10 + int(s[p]-'0')
		}
		p++
	}
	if n > maxNumber {
		n = maxNumber
	}
	return n, p
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlign(r rune) bool {
	return r == '<' || r == '>' || r == '=' || r == '^'
}

func isVerb(c byte) bool {
	switch c {
	case 's', 'c', 'd', 'o', 'x', 'X', 'e', 'E', 'f', 'F', 'g', 'G':
		return true
	}
	return false
}
