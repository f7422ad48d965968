package game

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// ClampPairCount bounds n to the number of pairs the pool can supply.
func ClampPairCount(n int, pool []string) int {
	if n < 1 {
		return 1
	}
	if n > len(pool) {
		return len(pool)
	}
	return n
}

// BuildDeck creates a shuffled deck of pairCount pairs drawn from pool.
// pairCount is clamped to [1, len(pool)]. Symbols are sampled without
// replacement, so each content token appears on exactly two cards. All cards
// start face-down and unmatched with a fresh identity.
//
// The rand source is injected so tests can seed it; pass
// rand.New(rand.NewPCG(...)) or any *rand.Rand.
func BuildDeck(pairCount int, pool []string, rng *rand.Rand) []*Card {
	pairCount = ClampPairCount(pairCount, pool)

	// Pick pairCount distinct symbols.
	perm := rng.Perm(len(pool))
	cards := make([]*Card, 0, 2*pairCount)
	for _, pi := range perm[:pairCount] {
		for range 2 {
			cards = append(cards, &Card{
				ID:      uuid.NewString(),
				Content: pool[pi],
			})
		}
	}

	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
	return cards
}
