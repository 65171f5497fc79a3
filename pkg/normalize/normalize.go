// Package normalize repairs encoding artifacts in seeded and model-produced
// text. UTF-8 content for the site has repeatedly round-tripped through
// Latin-1 somewhere upstream, which renders Turkish diacritics (as in
// "Öztürk") as two-byte mojibake. Repairs are a fixed ordered substitution
// table so the behavior is auditable and idempotent.
package normalize

import "strings"

type substitution struct {
	garbled   string
	canonical string
}

// Each replacement string is free of every garbled pattern, so applying the
// table to already-normalized text changes nothing. The right-double-quote
// entry carries U+009D as its third character; none of the patterns is a
// prefix of another.
var table = []substitution{
	// Punctuation smart-quote family (Windows-1252 round trips).
	{"â€™", "'"},
	{"â€˜", "'"},
	{"â€œ", "\""},
	{"â€", "\""},
	{"â€“", "–"},
	{"â€”", "—"},
	{"â€¦", "…"},

	// Turkish diacritics in proper nouns ("Ahmet Öztürk", "İstanbul").
	{"Ã–", "Ö"},
	{"Ã¶", "ö"},
	{"Ãœ", "Ü"},
	{"Ã¼", "ü"},
	{"Ã‡", "Ç"},
	{"Ã§", "ç"},
	{"Åž", "Ş"},
	{"ÅŸ", "ş"},
	{"Ä°", "İ"},
	{"Ä±", "ı"},
	{"Äž", "Ğ"},
	{"ÄŸ", "ğ"},
	{"Ã©", "é"},

	// Control-sequence leftovers: BOM renderings and stray NBSP halves.
	{"ï»¿", ""},
	{"Â ", " "},
	{"Â ", " "},
}

// Text applies the substitution table once, in order. Text(Text(s)) == Text(s).
func Text(s string) string {
	if !strings.ContainsAny(s, "ÃÅÄâÂï") {
		return s
	}
	for _, sub := range table {
		s = strings.ReplaceAll(s, sub.garbled, sub.canonical)
	}
	return s
}
