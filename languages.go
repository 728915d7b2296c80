package langsync

import (
	"strings"

	"golang.org/x/text/language"
)

// languageTag parses a directory name as a BCP 47 tag. Underscore-separated
// names such as "pt_BR" are accepted.
func languageTag(dir string) (language.Tag, error) {
	return language.Parse(strings.ReplaceAll(dir, "_", "-"))
}

// counterpart maps a base file path to the same file of lang by replacing
// the first path segment only: "en/en/x.php" becomes "fr/en/x.php".
func counterpart(basePath, lang string) string {
	_, rest, found := strings.Cut(basePath, "/")
	if !found {
		return lang + "/" + basePath
	}
	return lang + "/" + rest
}
