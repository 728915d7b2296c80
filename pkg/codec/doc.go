// Package codec converts translation files to and from tree.Tree values.
//
// The canonical format is a Laravel-style PHP language file, a script that
// returns a nested array literal:
//
//	<?php
//
//	return [
//	    'auth' => [
//	        'failed' => 'These credentials do not match our records.',
//	    ],
//	];
//
// The PHP codec does not execute code. It parses the literal subset such
// files are written in: short and long array syntax, quoted strings with
// PHP escape rules, "." concatenation of string literals, numbers, booleans,
// null and comments. Anything else is rejected with a *SyntaxError carrying
// the line and column.
//
// YAML and JSON codecs share the same Tree model for projects that keep
// translations in those formats. All three preserve key order when decoding
// and render deterministically, so identical trees always produce
// byte-identical files.
//
// # Registry
//
// A Registry picks the codec by file extension:
//
//	reg := codec.DefaultRegistry()
//	t, err := reg.DecodeFile(disk, "en/auth.php")
//	if err != nil {
//		return err // wraps codec.ErrDecode
//	}
//	err = reg.EncodeFile(disk, "pt_BR/auth.php", t)
//
// Files with other extensions return ErrUnsupported.
//
// # Errors
//
// Decoding failures wrap ErrDecode and, for malformed content, are a
// *SyntaxError:
//
//	var se *codec.SyntaxError
//	if errors.As(err, &se) {
//		fmt.Printf("line %d, column %d: %s\n", se.Line, se.Column, se.Msg)
//	}
//
// Encoding failures (for example a NaN float) wrap ErrEncode.
package codec
