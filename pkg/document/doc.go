// Package document holds the tree model merged by composer-merge.
//
// A Value is one of null, bool, number, string, list, ordered map, or an
// unresolved conflict node that only the merge engine creates. Maps keep
// insertion order so merged documents render with the keys where the user
// put them. Slot distinguishes a present value from an absent key.
//
// Parse reads JSON in document order and Encoder writes it back in the
// pretty-printed style Composer uses: one entry per line, non-ASCII and
// slashes unescaped.
package document
