package langsync

import "errors"

// Sentinel errors. Every failure halts the run; decode, encode and archive
// failures wrap codec.ErrDecode, codec.ErrEncode and archive.ErrArchive.
var (
	ErrNoLanguages = errors.New("langsync: no target language directories found")
	ErrNoBaseFiles = errors.New("langsync: no base language files found")
	ErrWrite       = errors.New("langsync: cannot write translation file")
)
