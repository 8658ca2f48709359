// Package dirlist lists the immediate children of a single directory and
// times how long each listing strategy takes.
//
// Three strategies are provided: a flat bulk read sorted by name, a nested
// read that streams the directory handle in batches, and a walk that uses
// fastwalk for parallel enumeration of one level.
package dirlist
