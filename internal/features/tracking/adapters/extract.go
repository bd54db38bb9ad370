package adapter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// statusRule maps raw status text matching pattern to a canonical status.
type statusRule struct {
	pattern *regexp.Regexp
	status  string
}

// rule compiles a status rule; expr is a regular expression over the raw text.
func rule(expr, status string) statusRule {
	return statusRule{pattern: regexp.MustCompile(expr), status: status}
}

// normalizeStatus returns the status of the first matching rule, or raw unchanged.
func normalizeStatus(raw string, rules []statusRule) string {
	for _, r := range rules {
		if r.pattern.MatchString(raw) {
			return r.status
		}
	}
	return raw
}

// parseDocument loads an HTML body for selector queries.
func parseDocument(body []byte) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to parse tracking page: %w", err)
	}
	return doc, nil
}

// text returns the trimmed text of the first element in sel.
func text(sel *goquery.Selection) string {
	return strings.TrimSpace(sel.First().Text())
}

// attr returns the trimmed attribute value of the first element in sel.
func attr(sel *goquery.Selection, name string) string {
	v, _ := sel.First().Attr(name)
	return strings.TrimSpace(v)
}

var dateTimeReplacer = strings.NewReplacer(
	"年", "/",
	"月", "/",
	"日", "",
	"時", ":",
	"分", "",
	"：", ":",
)

// normalizeTime rewrites Japanese date text such as "2024年12月01日 10時30分"
// to "2024/12/01 10:30" and collapses whitespace.
func normalizeTime(s string) string {
	return strings.Join(strings.Fields(dateTimeReplacer.Replace(s)), " ")
}
