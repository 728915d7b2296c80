package codec

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

const (
	phpPreamble = "<?php\n\nreturn "
	phpIndent   = "    "
)

// PHP reads and writes Laravel-style language files: a PHP script returning
// a nested array literal.
//
// Output layout:
//
//	<?php
//
//	return [
//	    'auth' => [
//	        'failed' => 'These credentials do not match our records.',
//	    ],
//	    'signin' => 'Sign-in',
//	];
type PHP struct{}

func (PHP) Extensions() []string { return []string{".php"} }

func (PHP) Decode(data []byte) (*tree.Tree, error) {
	p := &phpParser{src: data}
	return p.parseFile()
}

func (PHP) Encode(t *tree.Tree) ([]byte, error) {
	var b bytes.Buffer
	b.WriteString(phpPreamble)
	if err := writePHPTree(&b, t, 0); err != nil {
		return nil, err
	}
	b.WriteString(";\n")
	return b.Bytes(), nil
}

func writePHPTree(b *bytes.Buffer, t *tree.Tree, depth int) error {
	if t.Len() == 0 {
		b.WriteString("[]")
		return nil
	}

	indent := strings.Repeat(phpIndent, depth+1)
	b.WriteString("[\n")
	for key, v := range t.All() {
		b.WriteString(indent)
		b.WriteString(phpQuote(key))
		b.WriteString(" => ")
		if v.IsTree() {
			if err := writePHPTree(b, v.Tree(), depth+1); err != nil {
				return err
			}
		} else {
			lit, err := phpLiteral(v)
			if err != nil {
				return fmt.Errorf("%w: key %q: %v", ErrEncode, key, err)
			}
			b.WriteString(lit)
		}
		b.WriteString(",\n")
	}
	b.WriteString(strings.Repeat(phpIndent, depth))
	b.WriteString("]")
	return nil
}

// phpQuote renders s as a single-quoted PHP string. Only backslash and the
// quote itself need escaping inside single quotes.
func phpQuote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('\'')
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' || s[i] == '\'' {
			b.WriteByte('\\')
		}
		b.WriteByte(s[i])
	}
	b.WriteByte('\'')
	return b.String()
}

func phpLiteral(v tree.Value) (string, error) {
	switch v.Kind() {
	case tree.KindString:
		s, _ := v.Str()
		return phpQuote(s), nil
	case tree.KindBool:
		if b, _ := v.BoolValue(); b {
			return "true", nil
		}
		return "false", nil
	case tree.KindNull:
		return "null", nil
	case tree.KindInt:
		i, _ := v.IntValue()
		if i == math.MinInt64 {
			// A bare -9223372036854775808 is a float in PHP.
			return "-9223372036854775807-1", nil
		}
		return strconv.FormatInt(i, 10), nil
	case tree.KindFloat:
		f, _ := v.FloatValue()
		return formatFloat(f)
	}
	return "", fmt.Errorf("unsupported value kind %s", v.Kind())
}

// formatFloat renders the shortest representation that parses back to f,
// always marked as a float by a fraction or exponent.
func formatFloat(f float64) (string, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("non-finite float %v", f)
	}

	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-5 || abs >= 1e15) {
		s := strconv.FormatFloat(f, 'E', -1, 64)
		mantissa, exp, _ := strings.Cut(s, "E")
		if !strings.Contains(mantissa, ".") {
			mantissa += ".0"
		}
		return mantissa + "E" + exp, nil
	}

	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, nil
}
