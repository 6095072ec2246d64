package stores

import (
	"context"

	"go.pilab.hu/idstore/docstore"
	"golang.org/x/sync/errgroup"
)

// predicateFunc builds the multi-valued predicate for one chunk.
type predicateFunc func(values ...any) docstore.Predicate

func inField(field string) predicateFunc {
	return func(values ...any) docstore.Predicate { return docstore.In(field, values...) }
}

func arrayContainsAnyField(field string) predicateFunc {
	return func(values ...any) docstore.Predicate { return docstore.ArrayContainsAny(field, values...) }
}

// queryChunked runs one query per chunk of at most docstore.MaxFilterValues
// values and returns the union, deduplicated by document id. Chunks overlap
// for ArrayContainsAny when a document matches values in two chunks.
func queryChunked(ctx context.Context, store docstore.Store, collection string, values []string, pred predicateFunc) ([]*docstore.Document, error) {
	chunks := docstore.Partition(values, docstore.MaxFilterValues)
	if len(chunks) == 0 {
		return nil, nil
	}

	results := make([][]*docstore.Document, len(chunks))
	g, gctx := errgroup.WithContext(ctx)
	for i, chunk := range chunks {
		g.Go(func() error {
			docs, err := store.Query(gctx, collection, docstore.Query{
				Where: []docstore.Predicate{pred(docstore.Strings(chunk)...)},
			})
			results[i] = docs
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	var out []*docstore.Document
	for _, docs := range results {
		for _, d := range docs {
			if _, ok := seen[d.ID]; ok {
				continue
			}
			seen[d.ID] = struct{}{}
			out = append(out, d)
		}
	}
	return out, nil
}

// decodeAll decodes every document into a fresh E.
func decodeAll[E any](docs []*docstore.Document) ([]*E, error) {
	out := make([]*E, 0, len(docs))
	for _, d := range docs {
		var e E
		if err := d.DataTo(&e); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, nil
}
