package match

// EditDistance returns the number of single rune insertions, deletions or
// substitutions turning a into b.
func EditDistance(a, b string) int {
	if a == b {
		return 0
	}

	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}

	if len(ra) == 0 {
		return len(rb)
	}

	// one row of the matrix, indexed by the shorter string
	row := make([]int, len(ra)+1)
	for i := range row {
		row[i] = i
	}

	for j, cb := range rb {
		diag := row[0]
		row[0] = j + 1

		for i, ca := range ra {
			subst := diag
			if ca != cb {
				subst++
			}

			diag = row[i+1]
			row[i+1] = min(row[i+1]+1, row[i]+1, subst)
		}
	}

	return row[len(ra)]
}

// Similarity scores a and b between 0 (nothing in common) and 1 (equal) as
// one minus their edit distance relative to the longer of the two.
func Similarity(a, b string) float64 {
	longest := max(len([]rune(a)), len([]rune(b)))
	if longest == 0 {
		return 1
	}

	return 1 - float64(EditDistance(a, b))/float64(longest)
}

// NameSimilarity is Similarity of the normalized identifiers, so that
// "order_id" and "OrderID" score 1.
func NameSimilarity(a, b string) float64 {
	return Similarity(NormalizeIdent(a), NormalizeIdent(b))
}
