package previews

import (
	"net/url"
	"regexp"
	"strings"
)

// Pattern matching, not HTML parsing: attributes must appear in this order on
// one line, matching is case-sensitive and entities are left encoded.
var (
	titlePattern       = regexp.MustCompile(`<title>(.*?)</title>`)
	descriptionPattern = regexp.MustCompile(`<meta name="description" content="(.*?)"`)
	ogImagePattern     = regexp.MustCompile(`<meta property="og:image" content="(.*?)"`)
)

type extracted struct {
	title       string
	description string
	image       *string
}

func extract(document string) extracted {
	var out extracted
	out.title = firstGroup(titlePattern, document)
	out.description = firstGroup(descriptionPattern, document)
	if img := firstGroup(ogImagePattern, document); img != "" {
		out.image = &img
	}
	return out
}

func firstGroup(re *regexp.Regexp, s string) string {
	m := re.FindStringSubmatch(s)
	if len(m) < 2 {
		return ""
	}
	return m[1]
}

// siteName is the request host without a leading "www.".
func siteName(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
