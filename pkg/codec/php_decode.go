package codec

import (
	"bytes"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

var phpSimpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'v': '\v', 'e': 0x1b, 'f': '\f',
	'\\': '\\', '$': '$', '"': '"',
}

// phpParser understands the subset of PHP used by language files:
//
//	<?php [declare(...);] return <array>; [?>]
//
// Values are array literals ([...] or array(...)), quoted strings joined with
// the "." operator, numbers, true, false and null. Anything else, such as
// function calls, constants or heredocs, is rejected with a SyntaxError.
type phpParser struct {
	src []byte
	pos int
}

func (p *phpParser) parseFile() (*tree.Tree, error) {
	p.src = bytes.TrimPrefix(p.src, []byte("\xef\xbb\xbf"))

	p.skipSpace()
	if p.consumeFold("<?php") {
		if p.pos < len(p.src) && !isSpace(p.src[p.pos]) {
			return nil, p.errorf("expected whitespace after <?php")
		}
	}

	for {
		if err := p.skipTrivia(); err != nil {
			return nil, err
		}
		word := p.peekIdent()
		switch strings.ToLower(word) {
		case "declare", "namespace", "use":
			if err := p.skipStatement(); err != nil {
				return nil, err
			}
			continue
		case "return":
			p.pos += len(word)
		case "":
			return nil, p.errorf("expected return statement")
		default:
			return nil, p.errorf("unexpected %q, expected return statement", word)
		}
		break
	}

	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	start := p.pos
	v, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	if !v.IsTree() {
		return nil, newSyntaxError(p.src, start, "file must return an array, got %s", v.Kind())
	}

	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	switch {
	case p.consume(";"):
	case p.peekString("?>"):
	default:
		return nil, p.errorf("expected ';' after return value")
	}

	if err := p.skipTrivia(); err != nil {
		return nil, err
	}
	if p.consume("?>") {
		p.skipSpace()
	}
	if p.pos < len(p.src) {
		return nil, p.errorf("unexpected content after return statement")
	}

	return v.Tree(), nil
}

// parseExpr parses a primary value optionally followed by "." concatenations
// of string literals or "-" subtractions of integers.
func (p *phpParser) parseExpr() (tree.Value, error) {
	v, err := p.parsePrimary()
	if err != nil {
		return tree.Value{}, err
	}

	for {
		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}
		if i, ok := v.IntValue(); ok && p.peekString("-") {
			if v, err = p.parseSubtraction(i); err != nil {
				return tree.Value{}, err
			}
			continue
		}
		if !p.peekString(".") || p.peekString("..") {
			return v, nil
		}
		opPos := p.pos
		p.pos++
		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}
		rhs, err := p.parsePrimary()
		if err != nil {
			return tree.Value{}, err
		}
		left, lok := v.Str()
		right, rok := rhs.Str()
		if !lok || !rok {
			return tree.Value{}, newSyntaxError(p.src, opPos, "concatenation is only supported between strings")
		}
		v = tree.String(left + right)
	}
}

// parseSubtraction parses "- <int>" after the integer left and folds it.
func (p *phpParser) parseSubtraction(left int64) (tree.Value, error) {
	opPos := p.pos
	p.pos++
	rhs, err := p.parsePrimary()
	if err != nil {
		return tree.Value{}, err
	}
	right, ok := rhs.IntValue()
	if !ok {
		return tree.Value{}, newSyntaxError(p.src, opPos, "subtraction is only supported between integers")
	}
	if (right > 0 && left < math.MinInt64+right) || (right < 0 && left > math.MaxInt64+right) {
		return tree.Value{}, newSyntaxError(p.src, opPos, "integer overflow")
	}
	return tree.Int(left - right), nil
}

func (p *phpParser) parsePrimary() (tree.Value, error) {
	if err := p.skipTrivia(); err != nil {
		return tree.Value{}, err
	}
	if p.pos >= len(p.src) {
		return tree.Value{}, p.errorf("unexpected end of file")
	}

	c := p.src[p.pos]
	switch {
	case c == '[':
		p.pos++
		return p.parseArray(']')
	case c == '\'':
		s, err := p.parseSingleQuoted()
		return tree.String(s), err
	case c == '"':
		s, err := p.parseDoubleQuoted()
		return tree.String(s), err
	case c == '(':
		p.pos++
		v, err := p.parseExpr()
		if err != nil {
			return tree.Value{}, err
		}
		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}
		if !p.consume(")") {
			return tree.Value{}, p.errorf("expected ')'")
		}
		return v, nil
	case c == '-' || c == '+':
		p.pos++
		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}
		v, err := p.parseNumber()
		if err != nil {
			return tree.Value{}, err
		}
		if c == '-' {
			return negate(v), nil
		}
		return v, nil
	case isDigit(c) || (c == '.' && p.pos+1 < len(p.src) && isDigit(p.src[p.pos+1])):
		return p.parseNumber()
	case isIdentStart(c):
		word := p.peekIdent()
		switch strings.ToLower(word) {
		case "true":
			p.pos += len(word)
			return tree.Bool(true), nil
		case "false":
			p.pos += len(word)
			return tree.Bool(false), nil
		case "null":
			p.pos += len(word)
			return tree.Null(), nil
		case "array":
			start := p.pos
			p.pos += len(word)
			if err := p.skipTrivia(); err != nil {
				return tree.Value{}, err
			}
			if p.consume("(") {
				return p.parseArray(')')
			}
			p.pos = start
		}
		return tree.Value{}, p.errorf("unsupported expression %q", word)
	}

	return tree.Value{}, p.errorf("unexpected character %q", rune(c))
}

func (p *phpParser) parseArray(closer byte) (tree.Value, error) {
	t := tree.New()
	var next int64

	for {
		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}
		if p.pos >= len(p.src) {
			return tree.Value{}, p.errorf("unterminated array, expected %q", rune(closer))
		}
		if p.src[p.pos] == closer {
			p.pos++
			return tree.Nested(t), nil
		}

		keyPos := p.pos
		first, err := p.parseExpr()
		if err != nil {
			return tree.Value{}, err
		}
		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}

		var key string
		value := first
		if p.consume("=>") {
			var intKey int64
			var isInt bool
			key, intKey, isInt, err = p.arrayKey(first, keyPos)
			if err != nil {
				return tree.Value{}, err
			}
			if isInt && intKey >= next {
				next = intKey + 1
			}
			if value, err = p.parseExpr(); err != nil {
				return tree.Value{}, err
			}
		} else {
			key = strconv.FormatInt(next, 10)
			next++
		}
		t.Set(key, value)

		if err := p.skipTrivia(); err != nil {
			return tree.Value{}, err
		}
		if p.consume(",") {
			continue
		}
		if p.pos < len(p.src) && p.src[p.pos] == closer {
			continue
		}
		return tree.Value{}, p.errorf("expected ',' or %q in array", rune(closer))
	}
}

// arrayKey converts a key expression the way PHP does: decimal integer
// strings and integers share one key space, which drives implicit indexes.
func (p *phpParser) arrayKey(v tree.Value, pos int) (string, int64, bool, error) {
	switch v.Kind() {
	case tree.KindString:
		s, _ := v.Str()
		if i, err := strconv.ParseInt(s, 10, 64); err == nil && strconv.FormatInt(i, 10) == s {
			return s, i, true, nil
		}
		return s, 0, false, nil
	case tree.KindInt:
		i, _ := v.IntValue()
		return strconv.FormatInt(i, 10), i, true, nil
	}
	return "", 0, false, newSyntaxError(p.src, pos, "unsupported array key of kind %s", v.Kind())
}

func (p *phpParser) parseSingleQuoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '\'':
			p.pos++
			return b.String(), nil
		case c == '\\' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == '\\' || p.src[p.pos+1] == '\''):
			b.WriteByte(p.src[p.pos+1])
			p.pos += 2
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", newSyntaxError(p.src, start, "unterminated string")
}

func (p *phpParser) parseDoubleQuoted() (string, error) {
	start := p.pos
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '$':
			if p.pos+1 < len(p.src) && (isIdentStart(p.src[p.pos+1]) || p.src[p.pos+1] == '{') {
				return "", p.errorf("variable interpolation is not supported")
			}
			b.WriteByte(c)
			p.pos++
		case '{':
			if p.pos+1 < len(p.src) && p.src[p.pos+1] == '$' {
				return "", p.errorf("variable interpolation is not supported")
			}
			b.WriteByte(c)
			p.pos++
		case '\\':
			p.parseEscape(&b)
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", newSyntaxError(p.src, start, "unterminated string")
}

// parseEscape handles one backslash sequence of a double-quoted string.
// Unknown sequences are kept verbatim, as PHP does.
func (p *phpParser) parseEscape(b *strings.Builder) {
	p.pos++ // backslash
	if p.pos >= len(p.src) {
		b.WriteByte('\\')
		return
	}

	c := p.src[p.pos]
	if r, ok := phpSimpleEscapes[c]; ok {
		b.WriteByte(r)
		p.pos++
		return
	}

	switch {
	case c >= '0' && c <= '7':
		end := p.pos
		for end < len(p.src) && end-p.pos < 3 && p.src[end] >= '0' && p.src[end] <= '7' {
			end++
		}
		n, _ := strconv.ParseUint(string(p.src[p.pos:end]), 8, 16)
		b.WriteByte(byte(n))
		p.pos = end
		return
	case c == 'x' && p.pos+1 < len(p.src) && isHex(p.src[p.pos+1]):
		end := p.pos + 1
		for end < len(p.src) && end-p.pos-1 < 2 && isHex(p.src[end]) {
			end++
		}
		n, _ := strconv.ParseUint(string(p.src[p.pos+1:end]), 16, 8)
		b.WriteByte(byte(n))
		p.pos = end
		return
	case c == 'u' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '{':
		closeIdx := bytes.IndexByte(p.src[p.pos:], '}')
		if closeIdx > 2 {
			hex := string(p.src[p.pos+2 : p.pos+closeIdx])
			if n, err := strconv.ParseUint(hex, 16, 32); err == nil && utf8.ValidRune(rune(n)) {
				b.WriteRune(rune(n))
				p.pos += closeIdx + 1
				return
			}
		}
	}

	b.WriteByte('\\')
}

func (p *phpParser) parseNumber() (tree.Value, error) {
	start := p.pos
	isFloat := false

	if p.peekFold("0x") || p.peekFold("0b") || p.peekFold("0o") {
		p.pos += 2
		for p.pos < len(p.src) && (isHex(p.src[p.pos]) || p.src[p.pos] == '_') {
			p.pos++
		}
	} else {
		p.scanDigits()
		if p.pos < len(p.src) && p.src[p.pos] == '.' && !p.peekString("..") {
			isFloat = true
			p.pos++
			p.scanDigits()
		}
		if p.pos < len(p.src) && (p.src[p.pos] == 'e' || p.src[p.pos] == 'E') {
			isFloat = true
			p.pos++
			if p.pos < len(p.src) && (p.src[p.pos] == '+' || p.src[p.pos] == '-') {
				p.pos++
			}
			p.scanDigits()
		}
	}

	lit := strings.ReplaceAll(string(p.src[start:p.pos]), "_", "")
	if lit == "" {
		return tree.Value{}, newSyntaxError(p.src, start, "expected number")
	}

	if !isFloat {
		if i, err := strconv.ParseInt(lit, 0, 64); err == nil {
			return tree.Int(i), nil
		}
		// Integers overflowing int64 become floats, matching PHP.
		if u, err := strconv.ParseUint(lit, 0, 64); err == nil {
			return tree.Float(float64(u)), nil
		}
	}

	f, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return tree.Value{}, newSyntaxError(p.src, start, "invalid number %q", lit)
	}
	return tree.Float(f), nil
}

func (p *phpParser) scanDigits() {
	for p.pos < len(p.src) && (isDigit(p.src[p.pos]) || p.src[p.pos] == '_') {
		p.pos++
	}
}

func negate(v tree.Value) tree.Value {
	if i, ok := v.IntValue(); ok {
		return tree.Int(-i)
	}
	f, _ := v.FloatValue()
	return tree.Float(-f)
}

// skipStatement skips a declare/namespace/use statement up to its ';'.
func (p *phpParser) skipStatement() error {
	start := p.pos
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ';':
			p.pos++
			return nil
		case '\'':
			if _, err := p.parseSingleQuoted(); err != nil {
				return err
			}
		case '"':
			if _, err := p.parseDoubleQuoted(); err != nil {
				return err
			}
		default:
			p.pos++
		}
	}
	return newSyntaxError(p.src, start, "unterminated statement")
}

// skipTrivia skips whitespace and comments.
func (p *phpParser) skipTrivia() error {
	for {
		p.skipSpace()
		switch {
		case p.peekString("//") || (p.peekString("#") && !p.peekString("#[")):
			for p.pos < len(p.src) && p.src[p.pos] != '\n' && !p.peekString("?>") {
				p.pos++
			}
		case p.peekString("/*"):
			end := bytes.Index(p.src[p.pos+2:], []byte("*/"))
			if end < 0 {
				return p.errorf("unterminated comment")
			}
			p.pos += end + 4
		default:
			return nil
		}
	}
}

func (p *phpParser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *phpParser) peekIdent() string {
	end := p.pos
	for end < len(p.src) && (isIdentStart(p.src[end]) || (end > p.pos && isDigit(p.src[end]))) {
		end++
	}
	return string(p.src[p.pos:end])
}

func (p *phpParser) peekString(s string) bool {
	return bytes.HasPrefix(p.src[p.pos:], []byte(s))
}

func (p *phpParser) peekFold(s string) bool {
	return len(p.src)-p.pos >= len(s) && strings.EqualFold(string(p.src[p.pos:p.pos+len(s)]), s)
}

func (p *phpParser) consume(s string) bool {
	if p.peekString(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *phpParser) consumeFold(s string) bool {
	if p.peekFold(s) {
		p.pos += len(s)
		return true
	}
	return false
}

func (p *phpParser) errorf(format string, args ...any) error {
	return newSyntaxError(p.src, p.pos, format, args...)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}
