// Package reconcile turns virtual trees into host tree mutations.
//
// Render compares a new virtual node with the node rendered at the same
// position last time and issues the fewest host operations its positional
// rules allow:
//
//  1. new absent, old present: remove the host child at index
//  2. new present, old absent: materialize new and append it
//  3. both text: replace the host child with a new text node if they differ
//  4. kinds or tags differ: materialize new and replace the host child
//  5. same tag: sync attributes on the existing host child
//  6. recurse into children by position
//
// Children are matched by index only. Inserting at the front of a list
// patches every following sibling and appends the last one; nothing is
// recognized as moved.
//
// The reconciler keeps no reference to host nodes between calls. It always
// finds the node to patch as parent.ChildNodes()[index].
package reconcile
