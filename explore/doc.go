// Package explore implements spec §4.F's Explorer: it drives an external
// StateGenerator breadth across newly discovered state ids, owns the
// fingerprint->id table, and assembles the result into a sparse.Matrix
// plus a bitset.Set of Markovian states (for Markov automata).
//
// State ids are dense integers assigned in discovery order by IDTable,
// mirroring the teacher's core.Graph vertex-index discipline
// (fingerprint -> id map, id -> fingerprint slice) generalized from
// string vertex names to byte-slice fingerprints, since state fingerprints
// here are generator-defined binary blobs rather than user-chosen labels.
package explore
