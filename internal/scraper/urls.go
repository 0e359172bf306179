package scraper

import "strings"

const (
	entriesSegment = "entries/"
	drawSegment    = "draw/"
	entryMarker    = "/entry/"
)

var fieldPageExtensions = []string{".php", ".html", ".htm"}

// FieldsBaseURL returns the directory of a race events page. When the last
// path segment is a page file (".php", ".html", ".htm") the whole segment is
// dropped, so ".../results/events.php" yields ".../results". Trailing slashes
// are removed; field links are joined with a single "/".
func FieldsBaseURL(raceURL string) string {
	base := strings.TrimRight(raceURL, "/")
	slash := strings.LastIndex(base, "/")
	if slash < 0 || slash <= strings.Index(base, "://")+2 {
		return base
	}
	segment := strings.ToLower(base[slash+1:])
	for _, ext := range fieldPageExtensions {
		if strings.HasSuffix(segment, ext) {
			return strings.TrimRight(base[:slash], "/")
		}
	}
	return base
}

// EntriesBaseURL returns everything before the last "entries/" segment, or
// failing that the last "draw/" segment. URLs with neither are returned as is.
func EntriesBaseURL(pageURL string) string {
	if i := strings.LastIndex(pageURL, entriesSegment); i >= 0 {
		return pageURL[:i]
	}
	if i := strings.LastIndex(pageURL, drawSegment); i >= 0 {
		return pageURL[:i]
	}
	return pageURL
}

func joinFieldURL(base, rel string) string {
	return base + "/" + strings.TrimLeft(rel, "/")
}

// cleanEntryLink drops any leading run of "." and "/" so "../entry/1.php"
// becomes "entry/1.php".
func cleanEntryLink(href string) string {
	return strings.TrimLeft(href, "./")
}
