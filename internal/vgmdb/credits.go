package vgmdb

import (
	"strings"

	log "github.com/sirupsen/logrus"
)

// extractCredits reads one role per row. Multi-language albums render
// every name in several languages side by side; per cell the precedence
// is: English-tagged spans, then anchor links, then all stripped text.
// The first extracted value is the role label, the rest join with ", ".
func extractCredits(catalog string, doc *Document) map[string]string {
	credits := map[string]string{}

	box, ok := doc.First("div#collapse_credits")
	if !ok {
		log.Infof("[vgmdb] %s: no credits found", catalog)
		return credits
	}
	table, ok := box.First("table")
	if !ok {
		return credits
	}

	for _, row := range table.All("tr") {
		var values []string
		for _, td := range row.All("td") {
			if spans := td.All("span[lang=en]"); len(spans) > 0 {
				for _, s := range spans {
					values = append(values, strings.TrimSpace(s.Text()))
				}
				continue
			}
			if anchors := td.All("a"); len(anchors) > 0 {
				for _, a := range anchors {
					values = append(values, strings.TrimSpace(a.Text()))
				}
				continue
			}
			values = append(values, td.StrippedStrings()...)
		}
		if len(values) == 0 {
			// empty table row; nothing to key on
			continue
		}
		credits[values[0]] = strings.Join(values[1:], ", ")
	}

	return credits
}
