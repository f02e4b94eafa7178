// Package notes packs and unpacks the legacy single-column notes format.
//
// Visits written by the previous system fold the paid-visit amount, the
// customer-facing explanation and the operator's private notes into one
// text column using fixed markers. New rows store these as structured
// columns; this codec exists to read legacy rows and to keep emitting the
// packed form for exports that still expect it.
package notes

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	explanationMarker = "[Açıklama]"
	notesMarker       = "[Notlar]"
)

// The patterns mirror the composed layout: the amount is only ever the
// first line, the markers stand on lines of their own.
var (
	amountPattern   = regexp.MustCompile(`\AÜcretli ziyaret tutarı: (.+) TL(\n|\z)`)
	explanationLine = regexp.MustCompile(`(?m)^\[Açıklama\]$`)
	notesLine       = regexp.MustCompile(`(?m)^\[Notlar\]$`)
)

// Fields are the structured parts folded into the packed column.
type Fields struct {
	PaidAmount  string
	Explanation string
	Notes       string
}

// Compose packs the fields into the legacy single-column format. The
// output round-trips through Parse exactly.
func Compose(f Fields) string {
	var b strings.Builder
	if f.PaidAmount != "" {
		fmt.Fprintf(&b, "Ücretli ziyaret tutarı: %s TL\n\n", f.PaidAmount)
	}
	if f.Explanation != "" {
		b.WriteString(explanationMarker)
		b.WriteString("\n")
		b.WriteString(f.Explanation)
		b.WriteString("\n\n")
	}
	b.WriteString(notesMarker)
	b.WriteString("\n")
	b.WriteString(f.Notes)
	return b.String()
}

// Parse recovers the structured fields from a packed column. Unmarked
// input is treated as plain operator notes. Field text that itself
// contains a bare marker line still does not round-trip; the first
// marker line wins.
func Parse(packed string) Fields {
	var f Fields

	if m := amountPattern.FindStringSubmatch(packed); m != nil {
		f.PaidAmount = m[1]
		packed = strings.TrimLeft(packed[len(m[0]):], "\n")
	}

	if loc := notesLine.FindStringIndex(packed); loc != nil {
		f.Notes = strings.TrimPrefix(packed[loc[1]:], "\n")
		packed = packed[:loc[0]]
	} else {
		f.Notes = strings.TrimSpace(packed)
		return f
	}

	if loc := explanationLine.FindStringIndex(packed); loc != nil {
		f.Explanation = strings.TrimSpace(packed[loc[1]:])
	}

	return f
}
