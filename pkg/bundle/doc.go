// Package bundle loads resource bundles from byte sources and chooses, per base
// name, which storage backend serves it.
//
// Two backends exist: the structured binary format (package binres) and legacy
// text bundles (package legacy). A Detector probes each base name once and
// remembers which backend has data; the Engine loads through the detected
// backend and recovers by trying the other one when the guess was wrong.
package bundle
