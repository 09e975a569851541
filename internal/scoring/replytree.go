package scoring

// ReplyRef exposes a review's identity and reply pointer for depth
// analysis without dragging the full review payload along.
type ReplyRef struct {
	ID      string
	ReplyTo string
}

// MaxReplyDepth builds the reply forest for one paper's reviews and
// returns the maximum chain depth. Roots have depth 1; an empty input
// yields 0.
//
// Adjacency is restricted to replyto values that resolve inside the
// given batch. A review replying to anything outside the batch silently
// becomes a forest root rather than an error: when reviews are loaded in
// partial batches this can undercount deep chains, which is an accepted
// approximation.
func MaxReplyDepth(reviews []ReplyRef) int {
	if len(reviews) == 0 {
		return 0
	}

	present := make(map[string]struct{}, len(reviews))
	for _, r := range reviews {
		present[r.ID] = struct{}{}
	}

	children := make(map[string][]string)
	var roots []string
	for _, r := range reviews {
		if r.ReplyTo != "" {
			if _, ok := present[r.ReplyTo]; ok {
				children[r.ReplyTo] = append(children[r.ReplyTo], r.ID)
				continue
			}
		}
		roots = append(roots, r.ID)
	}

	// BFS from the roots; child depth = parent depth + 1.
	maxDepth := 0
	depths := make(map[string]int, len(reviews))
	queue := make([]string, 0, len(roots))
	for _, id := range roots {
		depths[id] = 1
		queue = append(queue, id)
	}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		depth := depths[id]
		if depth > maxDepth {
			maxDepth = depth
		}
		for _, child := range children[id] {
			if _, seen := depths[child]; seen {
				continue
			}
			depths[child] = depth + 1
			queue = append(queue, child)
		}
	}
	return maxDepth
}
