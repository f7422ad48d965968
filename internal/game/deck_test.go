package game

import (
	"fmt"
	"math/rand/v2"
	"testing"
)

func testRNG(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, 0))
}

func TestBuildDeckPairing(t *testing.T) {
	pairCounts := []int{1, 2, 3, 6, 10, 16}

	for _, n := range pairCounts {
		t.Run(fmt.Sprintf("%d", n), func(t *testing.T) {
			deck := BuildDeck(n, DefaultSymbols, testRNG(uint64(n)))

			if len(deck) != 2*n {
				t.Fatalf("Expected %d cards, got %d", 2*n, len(deck))
			}

			contentCount := make(map[string]int)
			idSeen := make(map[string]bool)
			for i, c := range deck {
				if c.FaceUp {
					t.Errorf("Card %d starts face-up", i)
				}
				if c.Matched {
					t.Errorf("Card %d starts matched", i)
				}
				if c.ID == "" {
					t.Errorf("Card %d has no identity", i)
				}
				if idSeen[c.ID] {
					t.Errorf("Card %d reuses identity %s", i, c.ID)
				}
				idSeen[c.ID] = true
				contentCount[c.Content]++
			}

			if len(contentCount) != n {
				t.Errorf("Expected %d distinct symbols, got %d", n, len(contentCount))
			}
			for content, count := range contentCount {
				if count != 2 {
					t.Errorf("Symbol %s appears %d times, expected 2", content, count)
				}
			}
		})
	}
}

func TestBuildDeckClamping(t *testing.T) {
	tests := []struct {
		pairCount int
		wantCards int
	}{
		{0, 2},
		{-5, 2},
		{1, 2},
		{999, 2 * len(DefaultSymbols)},
	}

	for _, test := range tests {
		deck := BuildDeck(test.pairCount, DefaultSymbols, testRNG(1))
		if len(deck) != test.wantCards {
			t.Errorf("BuildDeck(%d): expected %d cards, got %d",
				test.pairCount, test.wantCards, len(deck))
		}
	}
}

func TestBuildDeckDeterministic(t *testing.T) {
	a := BuildDeck(6, DefaultSymbols, testRNG(42))
	b := BuildDeck(6, DefaultSymbols, testRNG(42))

	if len(a) != len(b) {
		t.Fatalf("Deck lengths differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i].Content != b[i].Content {
			t.Fatalf("Same seed produced different orderings at index %d: %s vs %s",
				i, a[i].Content, b[i].Content)
		}
	}
}
