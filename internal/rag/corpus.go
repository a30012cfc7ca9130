// Package rag holds the scraped university knowledge corpus and the keyword
// retriever that answers free-text questions from it.
//
// The corpus is loaded once per process and never mutated afterwards; the
// retriever only ever reads an immutable snapshot.
package rag

// KnowledgeEntry is one scraped page of the university website.
type KnowledgeEntry struct {
	Category string `json:"category"`
	URL      string `json:"url"`
	Content  string `json:"content"`
}

// Corpus is an immutable snapshot of knowledge entries.
type Corpus struct {
	entries []KnowledgeEntry
}

// NewCorpus copies entries into a new snapshot.
func NewCorpus(entries []KnowledgeEntry) *Corpus {
	cp := make([]KnowledgeEntry, len(entries))
	copy(cp, entries)
	return &Corpus{entries: cp}
}

// Len returns the number of entries. A nil corpus is empty.
func (c *Corpus) Len() int {
	if c == nil {
		return 0
	}
	return len(c.entries)
}

// Empty reports whether the corpus has no entries.
func (c *Corpus) Empty() bool {
	return c.Len() == 0
}

// Each calls fn for every entry in order, stopping when fn returns false.
func (c *Corpus) Each(fn func(i int, e KnowledgeEntry) bool) {
	if c == nil {
		return
	}
	for i, e := range c.entries {
		if !fn(i, e) {
			return
		}
	}
}

// Snapshot lets a *Corpus be handed straight to a Retriever.
func (c *Corpus) Snapshot() *Corpus {
	return c
}
