// Package country holds the in-memory country dataset served by the API.
//
// # Overview
//
// A Dataset is built once at startup from the records produced by the
// loader and is read-only afterwards. It keeps two views of the same
// records:
//
//	┌──────────────────────────┐      ┌───────────────────────┐
//	│ ordered view ([]entry)   │◄─────│ id index (map[id]pos) │
//	│ source order, all items  │      │ last entry per id     │
//	└──────────────────────────┘      └───────────────────────┘
//	           │                                 │
//	           ▼                                 ▼
//	   List(pred, page, size)              Lookup(id)
//
// # Filtering
//
// At most one Predicate applies to a listing. ResolvePredicate turns the
// optional request inputs into a predicate using a fixed precedence:
//
//  1. country code (exact match, ignoring case)
//  2. name (prefix of the country name, ignoring case)
//  3. tag (same matching as name)
//
// Both operands are NFC-normalized and lowercased before comparison. The
// record side is folded once when the Dataset is built.
//
// # Pagination
//
// List always filters first and paginates second. TotalItems is the number
// of matching records; Data holds the records at positions
// [page*size, page*size+size) of the filtered sequence, in source order.
//
// # Concurrency
//
// The Dataset has no mutation path after NewDataset returns, so any number
// of goroutines may call Lookup and List concurrently. Returned records are
// copies.
package country
