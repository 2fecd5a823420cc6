package knowledge

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"unicode"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/cases"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var _ Retriever = (*Index)(nil)

// Index is an in-process lexical index grouped by knowledge base. Scores are
// the fraction of distinct query terms found in a passage (title + text +
// tags), so they fall in [0, 1]. Han characters count as individual terms.
type Index struct {
	mu    sync.RWMutex
	bases map[string][]indexed
	fold  cases.Caser
}

type indexed struct {
	passage Passage
	terms   map[string]struct{}
}

// NewIndex creates an empty index.
func NewIndex() *Index {
	return &Index{bases: make(map[string][]indexed), fold: cases.Fold()}
}

// Add indexes passages under their KnowledgeBase (or kb when unset).
func (ix *Index) Add(kb string, passages ...Passage) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	for _, p := range passages {
		if p.KnowledgeBase == "" {
			p.KnowledgeBase = kb
		}
		if p.ID == "" {
			p.ID = fmt.Sprintf("%s-%d", p.KnowledgeBase, len(ix.bases[p.KnowledgeBase]))
		}
		doc := p.Title + " " + p.Text + " " + strings.Join(p.Tags, " ")
		ix.bases[p.KnowledgeBase] = append(ix.bases[p.KnowledgeBase], indexed{passage: p, terms: termSet(ix.fold, doc)})
	}
}

// Bases returns the known knowledge base ids.
func (ix *Index) Bases() []string {
	ix.mu.RLock()
	defer ix.mu.RUnlock()
	out := make([]string, 0, len(ix.bases))
	for kb := range ix.bases {
		out = append(out, kb)
	}
	sort.Strings(out)
	return out
}

// Retrieve implements Retriever.
func (ix *Index) Retrieve(ctx context.Context, q Query) ([]Passage, error) {
	if err := ctx.Err(); err != nil {
		return nil, &RetrievalError{KnowledgeBase: q.KnowledgeBase, Message: "request canceled", Err: err}
	}
	q = q.withDefaults("")

	ix.mu.RLock()
	docs, ok := ix.bases[q.KnowledgeBase]
	ix.mu.RUnlock()
	if !ok {
		return nil, &RetrievalError{KnowledgeBase: q.KnowledgeBase, Message: "knowledge base not found"}
	}

	terms := termSet(ix.fold, q.Text)
	if len(terms) == 0 {
		return []Passage{}, nil
	}

	type scored struct {
		p     Passage
		order int
	}
	var hits []scored
	for i, d := range docs {
		matched := 0
		for t := range terms {
			if _, ok := d.terms[t]; ok {
				matched++
			}
		}
		score := float64(matched) / float64(len(terms))
		if score >= q.MinScore && matched > 0 {
			p := d.passage
			p.Score = score
			hits = append(hits, scored{p: p, order: i})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].p.Score != hits[j].p.Score {
			return hits[i].p.Score > hits[j].p.Score
		}
		return hits[i].order < hits[j].order
	})

	if len(hits) > q.MaxResults {
		hits = hits[:q.MaxResults]
	}
	out := make([]Passage, len(hits))
	for i, h := range hits {
		out[i] = h.p
	}
	return out, nil
}

// termSet folds case and splits text into words; each Han rune is its own term.
func termSet(fold cases.Caser, text string) map[string]struct{} {
	terms := make(map[string]struct{})
	var word strings.Builder
	flush := func() {
		if word.Len() > 1 {
			terms[word.String()] = struct{}{}
		}
		word.Reset()
	}
	for _, r := range fold.String(text) {
		switch {
		case unicode.Is(unicode.Han, r):
			flush()
			terms[string(r)] = struct{}{}
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			word.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return terms
}

type indexFile struct {
	KnowledgeBases map[string][]Passage `json:"knowledge_bases"`
}

// LoadFile reads an index from a JSON file of the form
// {"knowledge_bases": {"<id>": [{"title": ..., "text": ...}]}}.
func LoadFile(path string) (*Index, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge file: %w", err)
	}
	return Load(raw)
}

// Load parses an index from JSON bytes.
func Load(raw []byte) (*Index, error) {
	var f indexFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("decode knowledge file: %w", err)
	}
	ix := NewIndex()
	kbs := make([]string, 0, len(f.KnowledgeBases))
	for kb := range f.KnowledgeBases {
		kbs = append(kbs, kb)
	}
	sort.Strings(kbs)
	for _, kb := range kbs {
		ix.Add(kb, f.KnowledgeBases[kb]...)
	}
	return ix, nil
}
