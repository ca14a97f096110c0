package citation

import "fmt"

// QueryCount is the fixed size of every sample query set. It is the
// denominator of citation_frequency: changing it changes the meaning of
// every persisted measurement, so it is a constant rather than config.
const QueryCount = 5

// GenerateSampleQueries builds the discovery queries for one tuple.
// Always returns exactly QueryCount queries, deterministically: the same
// tuple yields the same queries in the same order.
func GenerateSampleQueries(category, city, state string) []string {
	return []string{
		fmt.Sprintf("best %s in %s, %s", category, city, state),
		fmt.Sprintf("top rated %s near %s, %s", category, city, state),
		fmt.Sprintf("where can I find a good %s in %s?", category, city),
		fmt.Sprintf("recommend a %s in %s, %s", category, city, state),
		fmt.Sprintf("most popular %s in %s, %s right now", category, city, state),
	}
}
