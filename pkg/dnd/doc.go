// Package dnd coordinates drag-and-drop reordering across ordered containers.
//
// A View owns one Coordinator, the single record of the in-flight drag:
// which item is dragged, which container is the drop target, and whether a
// transition lock is held. Container controllers keep each container's local
// order and Item controllers translate pointer input into insertion
// positions:
//
//	view := dnd.NewView(dnd.WithMeasurer(layout))
//	todo, _ := view.NewContainer(todoItems, save)
//	done, _ := view.NewContainer(nil, save)
//
//	card := view.NewItem(todo, todoItems[0], 0, handle)
//	card.Refresh()         // after the first layout pass
//	card.OnDragStart()     // pointer down
//	done.OnDragOverEmptyArea()
//	card.OnDragEnd()       // save(todo.ID(), ...) and save(done.ID(), ...)
//
// Renderers that re-create item components after every render can let an
// ItemSet do the bookkeeping: view.Track(container) returns a set whose Sync
// method creates, re-indexes, re-measures and closes item controllers to
// match the container's current order.
//
// # Notification Order
//
// Every coordinator mutation notifies all observers before it returns, so a
// statement following SetTargetContainer already sees the dragged item
// removed from every other container.
//
// # Threading
//
// Controllers are not safe for concurrent use. Feed all input for one view
// from a single goroutine, or serialize it with a lock.
package dnd
