// Package locale canonicalizes locale identifiers and computes the fallback
// chain used when bundles are loaded.
package locale

import (
	"strings"

	"golang.org/x/text/language"
)

// Root is the locale id of the root bundle for slash-separated base names.
// Dotted base names use the empty id instead.
const Root = "root"

// Canonicalize converts a BCP 47 or underscore separated identifier into the
// underscore form used for bundle names (fr-ca -> fr_CA). Identifiers that do
// not parse are returned with dashes replaced and otherwise untouched.
func Canonicalize(id string) string {
	id = strings.TrimSpace(id)
	if id == "" || strings.EqualFold(id, Root) {
		return strings.ToLower(id)
	}

	tag, err := language.Parse(strings.ReplaceAll(id, "_", "-"))
	if err != nil || tag == language.Und {
		return strings.ReplaceAll(id, "-", "_")
	}
	return strings.ReplaceAll(tag.String(), "-", "_")
}

// Parent returns the next less specific locale of id. The parent of a
// single-segment id is rootID; rootID itself has none.
func Parent(id, rootID string) (string, bool) {
	if id == rootID || id == "" || id == Root {
		return "", false
	}
	if i := strings.LastIndex(id, "_"); i > 0 {
		return id[:i], true
	}
	return rootID, true
}

// Chain returns id followed by each less specific locale, ending with rootID:
// Chain("fr_CA", "root") is [fr_CA fr root].
func Chain(id, rootID string) []string {
	if id == "" || id == Root {
		id = rootID
	}

	chain := []string{id}
	for cur := id; ; {
		p, ok := Parent(cur, rootID)
		if !ok {
			break
		}
		chain = append(chain, p)
		cur = p
	}
	return chain
}

// RootFor returns the root locale id used for a base name
func RootFor(baseName string) string {
	if strings.Contains(baseName, ".") {
		return ""
	}
	return Root
}
