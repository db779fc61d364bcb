// Package vect decides whether a counted loop can run as data-parallel
// vector code.
//
// Four independent analyses look at the loop body: access patterns of every
// subscript, uniformity of the computation type, reduction accumulators and
// the shape of the trip count. Analyze merges them into a Verdict whose
// Reasons read in a fixed order: trip count, pattern, dependency, type and
// the final decision.
//
// Nothing here keeps state between loops; every call builds its results from
// the AST and the checker's answers alone.
package vect
