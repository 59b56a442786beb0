// Package reconcile diffs a submitted desired-state task list against the
// persisted tasks of a job and derives the delete/update/create sets the
// repository should apply. It is pure logic with no storage vocabulary so it
// can be tested without I/O.
package reconcile

import (
	"github.com/shopspring/decimal"

	"jobtrack/internal/model"
)

// TaskPatch is one entry of a submitted task list. A nil ID means the entry
// does not identify an existing task. Nil fields are "not supplied", never
// "set to zero".
type TaskPatch struct {
	ID          *uint
	Description *string
	Cost        *decimal.Decimal
}

// TaskUpdate is a partial patch for an existing task. Only non-nil fields
// are changed.
type TaskUpdate struct {
	ID          uint
	Description *string
	Cost        *decimal.Decimal
}

// TaskCreate fully specifies a task to create.
type TaskCreate struct {
	Description string
	Cost        decimal.Decimal
}

// TaskChanges holds the three disjoint sets produced by Tasks.
type TaskChanges struct {
	DeleteIDs []uint
	Updates   []TaskUpdate
	Creates   []TaskCreate
}

// Empty reports whether applying the changes would be a no-op, letting the
// repository skip the task write entirely.
func (c TaskChanges) Empty() bool {
	return len(c.DeleteIDs) == 0 && len(c.Updates) == 0 && len(c.Creates) == 0
}

// Tasks computes the changes needed to make the persisted task set look like
// the submitted one:
//
//   - existing tasks whose id does not appear in the submission are deleted
//   - submitted entries matching an existing id become partial updates,
//     carrying only fields that are supplied and actually different; an entry
//     with nothing to change is dropped
//   - submitted entries with no id (or an unknown id) become creates, but only
//     when both description and cost are supplied; partial entries are skipped
//
// An existing task is never deleted while its id still appears in the
// submission, and input order is preserved within each set.
func Tasks(existing []model.JobTask, submitted []TaskPatch) TaskChanges {
	var changes TaskChanges

	existingByID := make(map[uint]model.JobTask, len(existing))
	for _, task := range existing {
		existingByID[task.ID] = task
	}

	submittedIDs := make(map[uint]bool, len(submitted))
	for _, patch := range submitted {
		if patch.ID != nil {
			submittedIDs[*patch.ID] = true
		}
	}

	for _, task := range existing {
		if !submittedIDs[task.ID] {
			changes.DeleteIDs = append(changes.DeleteIDs, task.ID)
		}
	}

	for _, patch := range submitted {
		if patch.ID != nil {
			if current, ok := existingByID[*patch.ID]; ok {
				update := TaskUpdate{ID: *patch.ID}
				changed := false
				if patch.Description != nil && *patch.Description != current.Description {
					update.Description = patch.Description
					changed = true
				}
				if patch.Cost != nil && !patch.Cost.Equal(current.Cost) {
					update.Cost = patch.Cost
					changed = true
				}
				if changed {
					changes.Updates = append(changes.Updates, update)
				}
				continue
			}
		}

		if patch.Description == nil || patch.Cost == nil {
			continue
		}
		changes.Creates = append(changes.Creates, TaskCreate{
			Description: *patch.Description,
			Cost:        *patch.Cost,
		})
	}

	return changes
}
