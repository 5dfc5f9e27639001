package ledger

// orderIDs maps an unordered pair of account ids onto the global lock
// acquisition order, independent of which side is debited. Lexicographic
// comparison of the ids is a strict total order, so every caller agrees on
// the sequence and circular waits cannot form.
func orderIDs(a, b string) (first, second string) {
	if a < b {
		return a, b
	}
	return b, a
}
