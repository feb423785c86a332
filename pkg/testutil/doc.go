// Package testutil provides helpers shared by the composer-merge tests.
//
// Key components:
//   - Isolate: points config, state and repository discovery at a temp dir
//   - Versions: the three inputs of a merge, written to disk in one call
//   - Parse and Compact: document fixtures from inline JSON
//
// All test data is defined inline, not in external files.
package testutil
