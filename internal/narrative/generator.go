package narrative

import (
	"fmt"
	"strings"
)

// Visit-type and pest-type tag labels shown to customers. Tag ids are the
// stable values persisted on the visit row.
var visitTypeLabels = map[string]string{
	"ilk":       "ilk",
	"periyodik": "periyodik",
	"acil":      "acil çağrı",
	"takip":     "takip",
	"son":       "son",
}

var pestTypeLabels = map[string]string{
	"hasere":       "haşere",
	"kemirgen":     "kemirgen",
	"ucan_hasere":  "uçan haşere",
	"yurur_hasere": "yürür haşere",
	"depo_zararli": "depo zararlısı",
}

// Generate derives the customer-facing explanation from the selected tag
// sets. With both sets non-empty it produces the combined sentence; with
// only visit types a generic inspection sentence; with neither it returns
// "" and the caller leaves any existing text untouched.
func Generate(visitTypes, pestTypes []string) string {
	visits := labels(visitTypes, visitTypeLabels)
	pests := labels(pestTypes, pestTypeLabels)

	if len(visits) == 0 {
		return ""
	}
	if len(pests) == 0 {
		return fmt.Sprintf(
			"Bu ziyarette, tesiste %s ziyareti kapsamında genel kontrol gerçekleştirilmiştir.",
			join(visits),
		)
	}
	return fmt.Sprintf(
		"Bu ziyarette, tesiste %s ziyareti kapsamında %s yönelik haşere kontrolü gerçekleştirilmiştir.",
		join(visits),
		join(pests)+"'e",
	)
}

// Apply regenerates the explanation unless the operator has manually
// edited the field; manual edits are never silently discarded.
func Apply(current string, userEdited bool, visitTypes, pestTypes []string) string {
	if userEdited {
		return current
	}
	generated := Generate(visitTypes, pestTypes)
	if generated == "" {
		return current
	}
	return generated
}

// VisitTypeLabel returns the display label for a visit-type tag id,
// falling back to the id itself.
func VisitTypeLabel(id string) string {
	if label, ok := visitTypeLabels[id]; ok {
		return label
	}
	return id
}

func labels(ids []string, table map[string]string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if label, ok := table[id]; ok {
			out = append(out, label)
		} else {
			out = append(out, id)
		}
	}
	return out
}

func join(labels []string) string {
	switch len(labels) {
	case 0:
		return ""
	case 1:
		return labels[0]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + " ve " + labels[len(labels)-1]
	}
}
