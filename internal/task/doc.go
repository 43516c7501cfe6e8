// Package task holds the task model and the in-memory task store.
//
// A task is persisted as a JSON object:
//
//	{
//	  "id": 3,
//	  "title": "Buy bread",
//	  "description": "At the corner bakery",
//	  "due_date": "2024-05-01",
//	  "status": "pending"
//	}
//
// # Store
//
// The Store owns the task collection for the running process. It assigns
// identifiers (max loaded id + 1, then incremented per add) and writes the
// full collection through a Persister after every successful mutation.
//
// A failed save is logged and remembered (see Store.LastSaveError) but never
// returned from the mutating call: the in-memory state stays authoritative.
// A failed load at construction is logged as a warning and the store starts
// empty.
//
// # Status Values
//
//   - "pending": Task is open
//   - "done": Task is complete
//
// # Validation
//
// Titles are trimmed and must not be empty. Invalid input is reported as a
// *ValidationError and never reaches the Persister.
package task
