// Package reconcile merges freshly fetched catalog data into stored rows
// without destructively overwriting verified values. All functions are pure:
// they take already-fetched row slices and return result structures for the
// caller to persist, log, or alert on.
package reconcile

// Fields is the fixed set of catalog fields that may change after a song is
// first seen. The identity key and title are immutable once created.
type Fields struct {
	Category string
	Artist   string
	Image    string
}

// Patch is a sparse update: the identity key plus only the fields that
// actually changed. A patch with no set fields is never emitted.
type Patch[K comparable] struct {
	Key      K
	Category *string
	Artist   *string
	Image    *string
}

func (p Patch[K]) Empty() bool {
	return p.Category == nil && p.Artist == nil && p.Image == nil
}

// CatalogDiff classifies a fresh catalog fetch against stored rows. Removed
// holds stored rows absent from the fetch; whether to actually delete them is
// the caller's decision.
type CatalogDiff[E, F any, K comparable] struct {
	New     []F
	Updated []Patch[K]
	Removed []E
}

// Differ compares stored and fetched catalog entries of possibly different
// types through key and field accessors. CHUNITHM keys by numeric ID, maimai
// by title; the accessors absorb that difference.
//
// Keys are compared with strict equality: if a source delivers a numeric ID
// as a string, the caller must coerce it before diffing.
type Differ[E, F any, K comparable] struct {
	ExistingKey    func(E) K
	FreshKey       func(F) K
	ExistingFields func(E) Fields
	FreshFields    func(F) Fields
}

func (d Differ[E, F, K]) Diff(existing []E, fresh []F) CatalogDiff[E, F, K] {
	byKey := make(map[K]E, len(existing))
	for _, e := range existing {
		byKey[d.ExistingKey(e)] = e
	}

	var out CatalogDiff[E, F, K]
	seen := make(map[K]bool, len(fresh))

	for _, f := range fresh {
		k := d.FreshKey(f)
		seen[k] = true

		e, ok := byKey[k]
		if !ok {
			out.New = append(out.New, f)
			continue
		}

		ef, ff := d.ExistingFields(e), d.FreshFields(f)
		p := Patch[K]{Key: k}
		if ff.Category != ef.Category {
			p.Category = &ff.Category
		}
		if ff.Artist != ef.Artist {
			p.Artist = &ff.Artist
		}
		if ff.Image != ef.Image {
			p.Image = &ff.Image
		}
		if !p.Empty() {
			out.Updated = append(out.Updated, p)
		}
	}

	for _, e := range existing {
		if !seen[d.ExistingKey(e)] {
			out.Removed = append(out.Removed, e)
		}
	}

	return out
}
