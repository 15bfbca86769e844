package session

import "math/rand"

// shuffleVisible returns a uniformly random permutation of the indices of the
// visible comments. Fisher-Yates over the visible subset: every permutation
// is equally likely, seed comments included like any other.
func shuffleVisible(comments []Comment, rng *rand.Rand) []int {
	indices := make([]int, 0, len(comments))
	for i := range comments {
		if comments[i].visible() {
			indices = append(indices, i)
		}
	}
	for i := len(indices) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		indices[i], indices[j] = indices[j], indices[i]
	}
	return indices
}
