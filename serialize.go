package edittree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is wrapped by every ParseError.
var ErrSyntax = errors.New("invalid edit tree label")

// ParseError represents a malformed label with the byte offset at which
// parsing stopped.
type ParseError struct {
	Offset int
	Msg    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s at offset %d", e.Msg, e.Offset)
}

func (e *ParseError) Unwrap() error {
	return ErrSyntax
}

// Serialize renders t as its canonical label:
//
//	()                        empty tree
//	(m pre suf left right)    match node
//	(r "replacee" "replacement")
//
// Inside quotes, '"', '\\' and '|' are backslash-escaped, as are tab,
// newline and carriage return (\t, \n, \r), so that a label is always a
// single line that can be stored in a CoNLL-U MISC field.
func Serialize(t EditTree) string {
	var sb strings.Builder
	writeTree(&sb, t)
	return sb.String()
}

func writeTree(sb *strings.Builder, t EditTree) {
	if isEmpty(t) {
		sb.WriteString("()")
		return
	}

	switch t := t.(type) {
	case *MatchNode:
		sb.WriteString("(m ")
		sb.WriteString(strconv.Itoa(t.Pre))
		sb.WriteByte(' ')
		sb.WriteString(strconv.Itoa(t.Suf))
		sb.WriteByte(' ')
		writeTree(sb, t.Left)
		sb.WriteByte(' ')
		writeTree(sb, t.Right)
		sb.WriteByte(')')
	case *ReplaceNode:
		sb.WriteString("(r ")
		writeQuoted(sb, t.Replacee)
		sb.WriteByte(' ')
		writeQuoted(sb, t.Replacement)
		sb.WriteByte(')')
	default:
		sb.WriteString("()")
	}
}

func writeQuoted(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"', '\\', '|':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\t':
			sb.WriteString(`\t`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
}

// Deserialize parses a label produced by Serialize. It is strict: anything
// Serialize would not produce, including extra whitespace and integers with
// leading zeros, is rejected with a *ParseError.
func Deserialize(label string) (EditTree, error) {
	p := &parser{src: label}
	t, err := p.tree()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected trailing input")
	}
	return t, nil
}

// MustDeserialize is like Deserialize but panics on malformed labels.
// It is meant for labels known at compile time.
func MustDeserialize(label string) EditTree {
	t, err := Deserialize(label)
	if err != nil {
		panic(err)
	}
	return t
}

type parser struct {
	src string
	pos int
}

func (p *parser) errorf(format string, args ...any) *ParseError {
	return &ParseError{Offset: p.pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expect(c byte) error {
	if p.pos >= len(p.src) {
		return p.errorf("expected %q, got end of input", c)
	}
	if p.src[p.pos] != c {
		return p.errorf("expected %q, got %q", c, p.src[p.pos])
	}
	p.pos++
	return nil
}

func (p *parser) tree() (EditTree, error) {
	if err := p.expect('('); err != nil {
		return nil, err
	}
	if p.pos >= len(p.src) {
		return nil, p.errorf("unbalanced parenthesis")
	}

	switch p.src[p.pos] {
	case ')':
		p.pos++
		return nil, nil
	case 'm':
		p.pos++
		return p.matchNode()
	case 'r':
		p.pos++
		return p.replaceNode()
	}

	return nil, p.errorf("unknown node type %q", p.src[p.pos])
}

func (p *parser) matchNode() (EditTree, error) {
	n := &MatchNode{}
	var err error

	if err = p.expect(' '); err != nil {
		return nil, err
	}
	if n.Pre, err = p.int(); err != nil {
		return nil, err
	}
	if err = p.expect(' '); err != nil {
		return nil, err
	}
	if n.Suf, err = p.int(); err != nil {
		return nil, err
	}
	if err = p.expect(' '); err != nil {
		return nil, err
	}
	if n.Left, err = p.tree(); err != nil {
		return nil, err
	}
	if err = p.expect(' '); err != nil {
		return nil, err
	}
	if n.Right, err = p.tree(); err != nil {
		return nil, err
	}
	if err = p.expect(')'); err != nil {
		return nil, err
	}

	return n, nil
}

func (p *parser) replaceNode() (EditTree, error) {
	n := &ReplaceNode{}
	var err error

	if err = p.expect(' '); err != nil {
		return nil, err
	}
	if n.Replacee, err = p.quoted(); err != nil {
		return nil, err
	}
	if err = p.expect(' '); err != nil {
		return nil, err
	}
	if n.Replacement, err = p.quoted(); err != nil {
		return nil, err
	}
	if err = p.expect(')'); err != nil {
		return nil, err
	}

	return n, nil
}

// int parses a non-negative decimal integer without sign or leading zeros.
func (p *parser) int() (int, error) {
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}

	digits := p.src[start:p.pos]
	switch {
	case digits == "":
		p.pos = start
		return 0, p.errorf("expected non-negative integer")
	case len(digits) > 1 && digits[0] == '0':
		p.pos = start
		return 0, p.errorf("integer %q has leading zeros", digits)
	}

	v, err := strconv.Atoi(digits)
	if err != nil {
		p.pos = start
		return 0, p.errorf("integer %q out of range", digits)
	}
	return v, nil
}

func (p *parser) quoted() (string, error) {
	if err := p.expect('"'); err != nil {
		return "", err
	}

	var sb strings.Builder
	for p.pos < len(p.src) {
		r, size := utf8.DecodeRuneInString(p.src[p.pos:])
		if r == utf8.RuneError && size == 1 {
			return "", p.errorf("invalid UTF-8")
		}

		switch r {
		case '"':
			p.pos++
			return sb.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", p.errorf("unterminated escape sequence")
			}
			switch c := p.src[p.pos]; c {
			case '"', '\\', '|':
				sb.WriteByte(c)
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			default:
				return "", p.errorf("unknown escape sequence \\%c", c)
			}
			p.pos++
		case '\t', '\n', '\r', '|':
			return "", p.errorf("unescaped %q in quoted string", r)
		default:
			sb.WriteRune(r)
			p.pos += size
		}
	}

	return "", p.errorf("unterminated quoted string")
}
