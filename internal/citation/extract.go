// Package citation implements the citation intelligence engine: sampling
// an answer engine with synthetic discovery queries, aggregating which
// platforms it cites, persisting the frequency distribution, and scoring
// a tenant's coverage gap against it.
package citation

import (
	"net/url"
	"sort"
	"strings"
)

// DefaultPlatformPatterns maps known domain or domain/path patterns to
// canonical platform identifiers. Patterns are matched against both the
// hostname and the full URL, so path-qualified entries like
// "google.com/maps" work. The vocabulary is deliberately not exhaustive:
// unmatched hostnames fall back to their first label, so new platforms
// surface from observed data instead of requiring a curated list.
func DefaultPlatformPatterns() map[string]string {
	return map[string]string{
		"yelp.com":         "yelp",
		"tripadvisor.com":  "tripadvisor",
		"opentable.com":    "opentable",
		"maps.google.com":  "google",
		"google.com/maps":  "google",
		"maps.apple.com":   "apple",
		"bing.com/maps":    "bing",
		"facebook.com":     "facebook",
		"instagram.com":    "instagram",
		"foursquare.com":   "foursquare",
		"nextdoor.com":     "nextdoor",
		"grubhub.com":      "grubhub",
		"doordash.com":     "doordash",
		"ubereats.com":     "ubereats",
		"yellowpages.com":  "yellowpages",
		"bbb.org":          "bbb",
		"angi.com":         "angi",
		"thumbtack.com":    "thumbtack",
		"houzz.com":        "houzz",
		"homeadvisor.com":  "homeadvisor",
		"healthgrades.com": "healthgrades",
		"zocdoc.com":       "zocdoc",
		"avvo.com":         "avvo",
		"zillow.com":       "zillow",
		"realtor.com":      "realtor",
		"expedia.com":      "expedia",
		"booking.com":      "booking",
		"airbnb.com":       "airbnb",
	}
}

// ExtractPlatform maps a cited URL to a canonical platform identifier.
// Empty or unparseable input yields "". When no pattern matches, the
// first label of the hostname is returned so unknown-but-real domains
// are still tracked.
func ExtractPlatform(rawURL string, patterns map[string]string) string {
	if rawURL == "" {
		return ""
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return ""
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	full := strings.ToLower(rawURL)

	// Sorted iteration keeps the match deterministic when patterns overlap.
	keys := make([]string, 0, len(patterns))
	for k := range patterns {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, pattern := range keys {
		if strings.Contains(host, pattern) || strings.Contains(full, pattern) {
			return patterns[pattern]
		}
	}

	if label, _, _ := strings.Cut(host, "."); label != "" {
		return label
	}
	return ""
}
