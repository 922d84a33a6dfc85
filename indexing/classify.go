package indexing

import "github.com/fwojciec/postsearch"

// Changes is the outcome of classifying an incoming document batch against
// the store's fingerprint snapshot.
type Changes struct {
	// ToWrite holds the documents that must be (re)written: every new
	// document plus every updated one.
	ToWrite []postsearch.Document

	// ToEvict holds the IDs of stale stored versions that must be removed
	// before (or as part of) writing their replacements.
	ToEvict []string

	New     int
	Updated int
}

// Classify compares an incoming document batch against the existing store
// snapshot (id → fingerprint) and decides what must be written and what must
// be evicted. Each document is classified independently:
//
//   - ID absent from the snapshot: new, written.
//   - ID present with a different fingerprint: updated, old version evicted
//     and the document written.
//   - ID present with an equal fingerprint: unchanged, excluded from both.
//
// When the batch contains multiple documents with the same ID, the last
// occurrence wins so at most one write per ID is emitted.
func Classify(snapshot map[string]string, docs []postsearch.Document) Changes {
	// Collapse the batch by ID, keeping first-occurrence order but the
	// content of the final occurrence.
	latest := make(map[string]int, len(docs))
	order := make([]string, 0, len(docs))
	for i, d := range docs {
		if _, ok := latest[d.ID]; !ok {
			order = append(order, d.ID)
		}
		latest[d.ID] = i
	}

	var ch Changes
	for _, id := range order {
		doc := docs[latest[id]]
		fp := postsearch.Fingerprint(doc.Content)

		stored, exists := snapshot[id]
		switch {
		case !exists:
			ch.New++
			ch.ToWrite = append(ch.ToWrite, doc)
		case stored != fp:
			ch.Updated++
			ch.ToEvict = append(ch.ToEvict, id)
			ch.ToWrite = append(ch.ToWrite, doc)
		}
	}

	return ch
}
