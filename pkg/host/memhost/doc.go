// Package memhost is an in-memory host tree.
//
// It implements host.Document and host.Node, keeps a journal of every
// mutation (used by tests and by the server to stream changes to remote
// mirrors), serializes trees to markup and replays journals onto another
// tree.
//
// Nodes reachable from the document root are attached. Mutations on
// attached nodes are journaled with the child-index path of their target;
// mutations on detached nodes (a subtree being materialized) are journaled
// with Detached set. Attached therefore yields the minimal stream a mirror
// needs: inserted subtrees travel as snapshots on the append/replace op.
package memhost
