// This package's suffix-sort core (sais_int.go) is adapted from the
// sais-lite reference implementation, Copyright (c) 2008-2010 Yuta Mori,
// released under the MIT license reproduced at the top of that file.

// Package sais implements the linear-time SA-IS suffix array algorithm,
// used by package bwt to construct the Burrows-Wheeler transform's sort
// permutation without an O(n log n) or worse general sort.
package sais

// ComputeSA computes the suffix array of T and places the result in SA.
// Both T and SA must be the same length.
func ComputeSA(T []byte, SA []int) {
	if len(SA) != len(T) {
		panic("mismatching sizes")
	}
	Ti := make([]int, len(T))
	for i, c := range T {
		Ti[i] = int(c)
	}
	computeSA_int(Ti, SA, 0, len(T), 256)
}
