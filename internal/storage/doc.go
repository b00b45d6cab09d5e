// Package storage persists task boards in a local key-value store.
//
// A board is written as one snapshot value under a single key:
//
//	{
//	  "pending": [
//	    {
//	      "id": "1700000000000",
//	      "title": "Task title",
//	      "desc": "Task description",
//	      "isCompleted": false,
//	      "createdAt": "2023-11-14T22:13:20.000Z",
//	      "completedAt": null
//	    }
//	  ],
//	  "completed": []
//	}
//
// Every save overwrites the whole snapshot. Timestamps are RFC 3339 in UTC
// with millisecond precision.
//
// # Stores
//
//   - file: one JSON object on disk mapping keys to string values, replaced
//     atomically on every write
//   - sqlite: a kv table managed through gorm
//   - memory: a process-local map
//
// # Loading
//
// A missing snapshot loads as an empty board. A snapshot that fails to parse,
// fails the embedded JSON Schema, or breaks a board invariant also loads as an
// empty board; its raw bytes are kept under "<key>.corrupt" and the problems
// are returned in a LoadReport.
package storage
