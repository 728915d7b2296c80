package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dmitrymomot/langsync/pkg/tree"
)

const jsonIndent = "    "

// JSON reads and writes nested JSON objects. Decoding consumes the token
// stream so object key order is preserved; arrays become trees keyed
// "0", "1", ...
type JSON struct{}

func (JSON) Extensions() []string { return []string{".json"} }

func (JSON) Decode(data []byte) (*tree.Tree, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return tree.New(), nil
	}

	d := &jsonDecoder{src: data, dec: json.NewDecoder(bytes.NewReader(data))}
	d.dec.UseNumber()

	tok, err := d.dec.Token()
	if err != nil {
		return nil, d.wrap(err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, newSyntaxError(data, 0, "document root must be an object")
	}

	t, err := d.object()
	if err != nil {
		return nil, err
	}

	if _, err := d.dec.Token(); !errors.Is(err, io.EOF) {
		return nil, newSyntaxError(data, int(d.dec.InputOffset()), "unexpected data after root object")
	}
	return t, nil
}

type jsonDecoder struct {
	dec *json.Decoder
	src []byte
}

// object reads key/value pairs after an opening brace up to its closing brace.
func (d *jsonDecoder) object() (*tree.Tree, error) {
	t := tree.New()
	for d.dec.More() {
		tok, err := d.dec.Token()
		if err != nil {
			return nil, d.wrap(err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, newSyntaxError(d.src, int(d.dec.InputOffset()), "object key must be a string")
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		t.Set(key, v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, d.wrap(err)
	}
	return t, nil
}

func (d *jsonDecoder) array() (*tree.Tree, error) {
	t := tree.New()
	for i := 0; d.dec.More(); i++ {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		t.Set(strconv.Itoa(i), v)
	}
	if _, err := d.dec.Token(); err != nil {
		return nil, d.wrap(err)
	}
	return t, nil
}

func (d *jsonDecoder) value() (tree.Value, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return tree.Value{}, d.wrap(err)
	}

	switch x := tok.(type) {
	case json.Delim:
		var sub *tree.Tree
		if x == '{' {
			sub, err = d.object()
		} else {
			sub, err = d.array()
		}
		if err != nil {
			return tree.Value{}, err
		}
		return tree.Nested(sub), nil
	case string:
		return tree.String(x), nil
	case bool:
		return tree.Bool(x), nil
	case nil:
		return tree.Null(), nil
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return tree.Int(i), nil
		}
		f, err := x.Float64()
		if err != nil {
			return tree.Value{}, newSyntaxError(d.src, int(d.dec.InputOffset()), "invalid number %q", x.String())
		}
		return tree.Float(f), nil
	}
	return tree.Value{}, newSyntaxError(d.src, int(d.dec.InputOffset()), "unexpected token %v", tok)
}

func (d *jsonDecoder) wrap(err error) error {
	var se *json.SyntaxError
	if errors.As(err, &se) {
		return newSyntaxError(d.src, int(se.Offset), "%s", se.Error())
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return newSyntaxError(d.src, len(d.src), "unexpected end of JSON input")
	}
	return fmt.Errorf("%w: %v", ErrDecode, err)
}

func (JSON) Encode(t *tree.Tree) ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSONTree(&b, t, 0); err != nil {
		return nil, err
	}
	b.WriteByte('\n')
	return b.Bytes(), nil
}

func writeJSONTree(b *bytes.Buffer, t *tree.Tree, depth int) error {
	if t.Len() == 0 {
		b.WriteString("{}")
		return nil
	}

	indent := strings.Repeat(jsonIndent, depth+1)
	b.WriteString("{\n")
	i := 0
	for key, v := range t.All() {
		if i > 0 {
			b.WriteString(",\n")
		}
		i++

		k, err := jsonString(key)
		if err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrEncode, key, err)
		}
		b.WriteString(indent)
		b.WriteString(k)
		b.WriteString(": ")

		if v.IsTree() {
			if err := writeJSONTree(b, v.Tree(), depth+1); err != nil {
				return err
			}
			continue
		}
		lit, err := jsonLiteral(v)
		if err != nil {
			return fmt.Errorf("%w: key %q: %v", ErrEncode, key, err)
		}
		b.WriteString(lit)
	}
	b.WriteString("\n")
	b.WriteString(strings.Repeat(jsonIndent, depth))
	b.WriteString("}")
	return nil
}

func jsonLiteral(v tree.Value) (string, error) {
	switch v.Kind() {
	case tree.KindString:
		s, _ := v.Str()
		return jsonString(s)
	case tree.KindBool:
		b, _ := v.BoolValue()
		return strconv.FormatBool(b), nil
	case tree.KindInt:
		i, _ := v.IntValue()
		return strconv.FormatInt(i, 10), nil
	case tree.KindFloat:
		f, _ := v.FloatValue()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", fmt.Errorf("non-finite float %v", f)
		}
		s := strconv.FormatFloat(f, 'g', -1, 64)
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			s += ".0"
		}
		return s, nil
	case tree.KindNull:
		return "null", nil
	}
	return "", fmt.Errorf("unsupported value kind %s", v.Kind())
}

// jsonString quotes s without HTML escaping so translations stay readable.
func jsonString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}
