package executor

import (
	"fmt"
	"strconv"

	"whiteboard/internal/domain"
)

// Ref points at an object either by ID or by its position in this batch's
// creation order. Models use indices when planning compositions before any
// IDs exist.
type Ref interface {
	fmt.Stringer
	isRef()
}

// RefID refers to an object by its ID.
type RefID string

// RefIndex refers to the n-th object created earlier in the same batch.
type RefIndex int

func (RefID) isRef()    {}
func (RefIndex) isRef() {}

func (r RefID) String() string    { return string(r) }
func (r RefIndex) String() string { return "#" + strconv.Itoa(int(r)) }

// parseRef reads an endpoint reference for prefix ("from" or "to"). An
// explicit <prefix>Index wins; a numeric <prefix>Id that is not a known
// object ID is also treated as an index.
func (b *batch) parseRef(a args, prefix string) Ref {
	if n, ok := a.num(prefix + "Index"); ok {
		return RefIndex(int(n))
	}
	key := prefix + "Id"
	if n, ok := a[key].(float64); ok {
		return RefIndex(int(n))
	}
	id := a.str(key)
	if id == "" {
		return nil
	}
	if _, ok := b.get(id); !ok {
		if n, err := strconv.Atoi(id); err == nil {
			return RefIndex(n)
		}
	}
	return RefID(id)
}

// resolve returns the object a Ref names among staged and persisted objects.
func (b *batch) resolve(r Ref) (domain.Object, bool) {
	switch r := r.(type) {
	case RefID:
		return b.get(string(r))
	case RefIndex:
		if r < 0 || int(r) >= len(b.order) {
			return domain.Object{}, false
		}
		return b.get(b.order[r])
	}
	return domain.Object{}, false
}
