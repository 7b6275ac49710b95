package mir

import (
	"strconv"
	"strings"
)

type datumKind uint8

const (
	datumList datumKind = iota + 1
	datumSymbol
	datumKeyword
	datumInt
	datumBool
	datumString
)

// datum is one parsed s-expression.
type datum struct {
	kind  datumKind
	off   int
	text  string // symbol/keyword name, unquoted string
	num   int64
	truth bool
	items []*datum
	tail  *datum // set for dotted lists
}

// reader turns text into datums. It only understands the subset of
// s-expression syntax MIR uses and rejects the rest with a DecodeError.
type reader struct {
	src string
	off int
}

func (r *reader) eof() bool {
	return r.off >= len(r.src)
}

func (r *reader) peek() byte {
	if r.eof() {
		return 0
	}
	return r.src[r.off]
}

func (r *reader) skipTrivia() {
	for !r.eof() {
		switch ch := r.peek(); {
		case ch == ';':
			for !r.eof() && r.peek() != '\n' {
				r.off++
			}
		case ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r':
			r.off++
		default:
			return
		}
	}
}

func isDelimiter(ch byte) bool {
	switch ch {
	case ' ', '\t', '\n', '\r', '(', ')', '"', ';':
		return true
	}
	return false
}

func (r *reader) scanAtom() string {
	start := r.off
	for !r.eof() && !isDelimiter(r.peek()) {
		r.off++
	}
	return r.src[start:r.off]
}

// read parses the next datum. A lone "." is returned as a symbol so that the
// list reader can recognize dotted tails.
func (r *reader) read() (*datum, error) {
	r.skipTrivia()
	if r.eof() {
		return nil, decodeErrorf(DecUnexpectedEOF, r.off, "unexpected end of input")
	}
	start := r.off
	switch ch := r.peek(); ch {
	case '(':
		r.off++
		return r.readList(start)
	case ')':
		return nil, decodeErrorf(DecUnexpectedToken, start, "unexpected ')'")
	case '"':
		return r.readString()
	case '#':
		return r.readHash()
	}

	atom := r.scanAtom()
	switch {
	case strings.HasPrefix(atom, ":") && len(atom) > 1:
		return &datum{kind: datumKeyword, off: start, text: atom[1:]}, nil
	case looksNumeric(atom):
		return parseNumber(atom, start)
	}
	return &datum{kind: datumSymbol, off: start, text: atom}, nil
}

func (r *reader) readList(start int) (*datum, error) {
	d := &datum{kind: datumList, off: start}
	for {
		r.skipTrivia()
		if r.eof() {
			return nil, decodeErrorf(DecUnexpectedEOF, r.off, "unclosed '(' opened at offset %d", start)
		}
		if r.peek() == ')' {
			r.off++
			return d, nil
		}
		item, err := r.read()
		if err != nil {
			return nil, err
		}
		if item.kind == datumSymbol && item.text == "." {
			if len(d.items) == 0 {
				return nil, decodeErrorf(DecUnexpectedToken, item.off, "'.' at the start of a list")
			}
			tail, err := r.read()
			if err != nil {
				return nil, err
			}
			r.skipTrivia()
			if r.peek() != ')' {
				return nil, decodeErrorf(DecUnexpectedToken, r.off, "expected ')' after dotted tail")
			}
			r.off++
			d.tail = tail
			return d, nil
		}
		d.items = append(d.items, item)
	}
}

func (r *reader) readString() (*datum, error) {
	start := r.off
	r.off++ // opening quote
	for !r.eof() {
		switch r.peek() {
		case '\\':
			r.off += 2
			continue
		case '"':
			r.off++
			text, err := strconv.Unquote(r.src[start:r.off])
			if err != nil {
				return nil, decodeErrorf(DecUnexpectedToken, start, "malformed string literal: %v", err)
			}
			return &datum{kind: datumString, off: start, text: text}, nil
		}
		r.off++
	}
	return nil, decodeErrorf(DecUnterminatedString, start, "unterminated string literal")
}

func (r *reader) readHash() (*datum, error) {
	start := r.off
	rest := r.src[r.off:]
	switch {
	case strings.HasPrefix(rest, "#("):
		return nil, decodeErrorf(DecUnsupportedLiteral, start, "vectors are not supported")
	case strings.HasPrefix(rest, "#u8("):
		return nil, decodeErrorf(DecUnsupportedLiteral, start, "byte vectors are not supported")
	case strings.HasPrefix(rest, `#\`):
		return nil, decodeErrorf(DecUnsupportedLiteral, start, "characters are not supported")
	}
	atom := r.scanAtom()
	switch atom {
	case "#t", "#true":
		return &datum{kind: datumBool, off: start, truth: true}, nil
	case "#f", "#false":
		return &datum{kind: datumBool, off: start, truth: false}, nil
	}
	if strings.HasPrefix(atom, "#:") && len(atom) > 2 {
		return &datum{kind: datumKeyword, off: start, text: atom[2:]}, nil
	}
	return nil, decodeErrorf(DecUnsupportedLiteral, start, "unsupported literal %q", atom)
}

func looksNumeric(atom string) bool {
	if atom == "" {
		return false
	}
	i := 0
	if atom[0] == '-' || atom[0] == '+' {
		i = 1
	}
	return i < len(atom) && atom[i] >= '0' && atom[i] <= '9'
}

func parseNumber(atom string, off int) (*datum, error) {
	v, err := strconv.ParseInt(atom, 10, 64)
	if err == nil {
		return &datum{kind: datumInt, off: off, num: v}, nil
	}
	if _, ferr := strconv.ParseFloat(atom, 64); ferr == nil && strings.ContainsAny(atom, ".eE") {
		return nil, decodeErrorf(DecUnsupportedLiteral, off, "floating-point literal %s is not supported", atom)
	}
	return nil, decodeErrorf(DecBadNumber, off, "malformed integer %q", atom)
}
