package executor_test

import (
	"context"
	"errors"
	"fmt"

	"whiteboard/internal/domain"
)

// memBoard is an in-memory BoardOperations that records every call.
type memBoard struct {
	user    string
	objects []domain.Object

	batches   int
	updates   int
	deletes   [][]string
	clears    int
	commitErr error
}

// clearingBoard adds ClearObjects on top of memBoard.
type clearingBoard struct{ *memBoard }

func (c clearingBoard) ClearObjects(ctx context.Context) error {
	c.clears++
	c.objects = nil
	return nil
}

func newBoard(objs ...domain.Object) *memBoard {
	return &memBoard{user: "user-1", objects: objs}
}

func (m *memBoard) Objects() []domain.Object {
	return append([]domain.Object(nil), m.objects...)
}

func (m *memBoard) UserID() string { return m.user }

func (m *memBoard) CreateObject(ctx context.Context, obj domain.Object) error {
	m.objects = append(m.objects, obj.Clone())
	return nil
}

func (m *memBoard) CreateObjectsBatch(ctx context.Context, objs []domain.Object) error {
	if m.commitErr != nil {
		return m.commitErr
	}
	m.batches++
	for _, o := range objs {
		m.objects = append(m.objects, o.Clone())
	}
	return nil
}

func (m *memBoard) UpdateObject(ctx context.Context, id string, patch domain.ObjectPatch) error {
	for i := range m.objects {
		if m.objects[i].ID == id {
			patch.Apply(&m.objects[i])
			m.updates++
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memBoard) DeleteObjects(ctx context.Context, ids []string) error {
	m.deletes = append(m.deletes, ids)
	drop := map[string]bool{}
	for _, id := range ids {
		drop[id] = true
	}
	kept := m.objects[:0]
	for _, o := range m.objects {
		if !drop[o.ID] {
			kept = append(kept, o)
		}
	}
	m.objects = kept
	return nil
}

func (m *memBoard) get(id string) (domain.Object, bool) {
	for _, o := range m.objects {
		if o.ID == id {
			return o, true
		}
	}
	return domain.Object{}, false
}

// seqIDs returns a generator producing obj-1, obj-2, ...
func seqIDs() domain.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("obj-%d", n)
	}
}

func stickies(n int) []domain.Object {
	out := make([]domain.Object, n)
	for i := range out {
		out[i] = domain.Object{
			ID:     fmt.Sprintf("s%d", i),
			Type:   domain.ObjectTypeSticky,
			X:      float64(i * 250),
			Y:      0,
			Width:  200,
			Height: 200,
			Color:  "#FFF59D",
		}
	}
	return out
}
