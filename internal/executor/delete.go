package executor

import (
	"go.uber.org/zap"

	"whiteboard/internal/domain"
)

// clearThreshold is the share of the board a delete must name before it is
// treated as "clear the board". Models often drop a few IDs from long lists.
const clearThreshold = 0.95

func deleteObject(b *batch, a args) {
	ids := a.ids()
	if len(ids) == 0 {
		b.note("Skipped deleteObject: no objects given.")
		return
	}

	stagedIDs := map[string]bool{}
	persistedIDs := map[string]bool{}
	var existing []string
	missing := 0
	for _, id := range ids {
		_, staged, ok := b.find(id)
		switch {
		case !ok:
			missing++
		case staged:
			stagedIDs[id] = true
		default:
			persistedIDs[id] = true
			existing = append(existing, id)
		}
	}

	dropped := b.dropStaged(stagedIDs)

	total := len(b.persisted)
	if total > 0 && float64(len(existing)) >= clearThreshold*float64(total) {
		b.clearBoard(total)
		if dropped > 0 {
			b.note("Discarded %s created earlier in this request.", plural(dropped, "object"))
		}
		return
	}

	if len(existing) > 0 {
		if err := b.board.DeleteObjects(b.ctx, existing); err != nil {
			b.log.Warn("[executor] delete failed", zap.Int("objects", len(existing)), zap.Error(err))
			b.note("Failed to delete %s: %v.", plural(len(existing), "object"), err)
			return
		}
		b.removePersisted(persistedIDs)
	}

	if n := len(existing) + dropped; n > 0 {
		msg := "Deleted " + plural(n, "object")
		if missing > 0 {
			msg += "; " + plural(missing, "ID") + " not found"
		}
		b.notes = append(b.notes, msg+".")
		return
	}
	b.note("Nothing deleted: %s not found.", plural(missing, "object"))
}

// clearBoard removes every persisted object, using the board's bulk clear
// when it has one.
func (b *batch) clearBoard(total int) {
	all := make(map[string]bool, len(b.persisted))
	ids := make([]string, 0, len(b.persisted))
	for _, o := range b.persisted {
		all[o.ID] = true
		ids = append(ids, o.ID)
	}

	var err error
	if c, ok := b.board.(domain.Clearer); ok {
		err = c.ClearObjects(b.ctx)
	} else {
		err = b.board.DeleteObjects(b.ctx, ids)
	}
	if err != nil {
		b.log.Warn("[executor] clear failed", zap.Int("objects", total), zap.Error(err))
		b.note("Failed to clear the board: %v.", err)
		return
	}
	b.removePersisted(all)
	b.note("Cleared the board (%s deleted).", plural(total, "object"))
}
