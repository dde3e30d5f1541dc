package commands

// SummaryCache holds directory summaries for one run, keyed by relative path
// with "." for the root. A directory has an entry once it is fully processed,
// and entries are kept for the rest of the run.
type SummaryCache struct {
	entries map[string]string
	order   []string
}

// NewSummaryCache returns an empty cache.
func NewSummaryCache() *SummaryCache {
	return &SummaryCache{entries: map[string]string{}}
}

// Store records summary for relativePath.
func (cache *SummaryCache) Store(relativePath, summary string) {
	if _, exists := cache.entries[relativePath]; !exists {
		cache.order = append(cache.order, relativePath)
	}
	cache.entries[relativePath] = summary
}

// Lookup returns the summary for relativePath.
func (cache *SummaryCache) Lookup(relativePath string) (string, bool) {
	summary, found := cache.entries[relativePath]
	return summary, found
}

// Len reports how many directories have a summary.
func (cache *SummaryCache) Len() int {
	return len(cache.entries)
}

// Entries returns a copy of every summary.
func (cache *SummaryCache) Entries() map[string]string {
	entries := make(map[string]string, len(cache.entries))
	for relativePath, summary := range cache.entries {
		entries[relativePath] = summary
	}
	return entries
}

// Order returns the relative paths in the order their summaries were stored.
func (cache *SummaryCache) Order() []string {
	return append([]string(nil), cache.order...)
}
