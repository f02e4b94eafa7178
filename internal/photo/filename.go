package photo

import (
	"fmt"
	"strings"
	"time"

	"github.com/gosimple/slug"
)

// Filename derives the storage key for a report photo:
// {customer}_{branch}_{date}_{report number}.{ext}. Each part is slugged
// with the Turkish locale so diacritics and whitespace never leak into
// object keys.
func Filename(customerName, branchName string, visitDate time.Time, reportNumber, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
	if ext == "" {
		ext = "jpg"
	}
	return fmt.Sprintf("%s_%s_%s_%s.%s",
		sanitize(customerName),
		sanitize(branchName),
		visitDate.Format("2006-01-02"),
		sanitize(reportNumber),
		ext,
	)
}

func sanitize(part string) string {
	cleaned := strings.ReplaceAll(slug.MakeLang(part, "tr"), "-", "_")
	if cleaned == "" {
		return "x"
	}
	return cleaned
}
