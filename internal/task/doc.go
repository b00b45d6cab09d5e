// Package task holds task records and the board that orders them.
//
// A board has two collections:
//
//   - pending: tasks that are not completed, in insertion order
//   - completed: completed tasks, in the order they were completed
//
// # Invariants
//
//   - a task lives in exactly one collection
//   - task IDs are unique across both collections
//   - CompletedAt is set if and only if IsCompleted is true, which holds
//     if and only if the task lives in the completed collection
//
// Boards hand out copies of their tasks. The only way to change a task is
// through a Board method, so the invariants above cannot be broken from
// outside the package.
package task
