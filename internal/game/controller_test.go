package game

import (
	"testing"
	"testing/synctest"
	"time"
)

func newTestController(pairCount int) *Controller {
	return NewController(pairCount, DefaultSymbols, testRNG(7))
}

// findPair returns the indices of two unmatched face-down cards with the
// same content.
func findPair(c *Controller) (int, int) {
	for i := 0; i < len(c.cards); i++ {
		if c.cards[i].Matched {
			continue
		}
		for j := i + 1; j < len(c.cards); j++ {
			if !c.cards[j].Matched && c.cards[i].Content == c.cards[j].Content {
				return i, j
			}
		}
	}
	return -1, -1
}

// findMismatch returns the indices of two face-down cards with different
// content.
func findMismatch(c *Controller) (int, int) {
	for i := 0; i < len(c.cards); i++ {
		for j := i + 1; j < len(c.cards); j++ {
			if c.cards[i].Content != c.cards[j].Content {
				return i, j
			}
		}
	}
	return -1, -1
}

func TestMatchResolution(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(3)
		i, j := findPair(c)
		if i < 0 {
			t.Fatal("No pair found in fresh deck")
		}

		c.HandleTap(i)
		if !c.cards[i].FaceUp {
			t.Fatalf("Card %d should be face-up after tap", i)
		}
		if len(c.faceUp) != 1 || c.evaluating {
			t.Fatalf("Expected one face-up card and no lock, got faceUp=%v evaluating=%v", c.faceUp, c.evaluating)
		}

		c.HandleTap(j)
		if !c.evaluating {
			t.Fatal("Evaluation lock should be set after second tap")
		}

		// Before the delay elapses nothing is matched yet.
		if c.cards[i].Matched || c.cards[j].Matched {
			t.Fatal("Cards matched before the resolve delay elapsed")
		}

		time.Sleep(MatchResolveDelay + time.Millisecond)
		synctest.Wait()

		if !c.cards[i].Matched || !c.cards[j].Matched {
			t.Fatal("Cards should be matched after the resolve delay")
		}
		if len(c.faceUp) != 0 || c.evaluating {
			t.Fatalf("Expected cleared face-up list and released lock, got faceUp=%v evaluating=%v", c.faceUp, c.evaluating)
		}
	})
}

func TestMismatchResolution(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(3)
		i, j := findMismatch(c)
		if i < 0 {
			t.Fatal("No mismatching cards found")
		}

		c.HandleTap(i)
		c.HandleTap(j)
		if !c.evaluating {
			t.Fatal("Evaluation lock should be set")
		}

		time.Sleep(MismatchResolveDelay + time.Millisecond)
		synctest.Wait()

		if c.cards[i].FaceUp || c.cards[j].FaceUp {
			t.Fatal("Cards should be face-down again after mismatch delay")
		}
		if c.cards[i].Matched || c.cards[j].Matched {
			t.Fatal("Mismatched cards must not be marked matched")
		}
		if len(c.faceUp) != 0 || c.evaluating {
			t.Fatalf("Expected cleared face-up list and released lock, got faceUp=%v evaluating=%v", c.faceUp, c.evaluating)
		}
	})
}

func TestTapGuards(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(3)

		// Out of range taps are ignored.
		c.HandleTap(-1)
		c.HandleTap(len(c.cards))
		if len(c.faceUp) != 0 {
			t.Fatal("Out-of-range tap mutated state")
		}

		// Re-tapping the sole face-up card is ignored.
		c.HandleTap(0)
		c.HandleTap(0)
		if len(c.faceUp) != 1 {
			t.Fatalf("Re-tap of the same card should be a no-op, faceUp=%v", c.faceUp)
		}
		if c.evaluating {
			t.Fatal("Re-tap of the same card must not start an evaluation")
		}

		// Taps are ignored while the evaluation lock is set.
		_, j := findMismatch(c)
		other := -1
		for k := range c.cards {
			if k != 0 && k != j {
				other = k
				break
			}
		}
		c.HandleTap(j)
		if !c.evaluating {
			t.Fatal("Expected evaluation lock after second card")
		}
		c.HandleTap(other)
		if c.cards[other].FaceUp {
			t.Fatal("Tap during evaluation flipped a card")
		}

		time.Sleep(MismatchResolveDelay + time.Millisecond)
		synctest.Wait()

		// Taps on matched cards are ignored.
		i, j := findPair(c)
		c.HandleTap(i)
		c.HandleTap(j)
		time.Sleep(MatchResolveDelay + time.Millisecond)
		synctest.Wait()
		if !c.cards[i].Matched {
			t.Fatal("Expected matched pair")
		}
		c.HandleTap(i)
		if len(c.faceUp) != 0 {
			t.Fatal("Tap on a matched card mutated state")
		}
	})
}

func TestResetDiscardsPendingResolution(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(3)
		i, j := findMismatch(c)
		c.HandleTap(i)
		c.HandleTap(j)
		if !c.evaluating {
			t.Fatal("Evaluation lock should be set")
		}

		c.Reset()
		if c.evaluating || len(c.faceUp) != 0 {
			t.Fatal("Reset should clear the face-up list and release the lock")
		}

		// Let the (stale) timer deadline pass; the rebuilt deck must be
		// untouched.
		time.Sleep(MismatchResolveDelay + time.Millisecond)
		synctest.Wait()

		for k, card := range c.cards {
			if card.FaceUp || card.Matched {
				t.Fatalf("Card %d mutated by a stale timer", k)
			}
		}
	})
}

func TestSetPairCount(t *testing.T) {
	c := newTestController(3)

	c.SetPairCount(10)
	if len(c.cards) != 20 {
		t.Errorf("SetPairCount(10): expected 20 cards, got %d", len(c.cards))
	}

	c.SetPairCount(999)
	if len(c.cards) != 2*len(DefaultSymbols) {
		t.Errorf("SetPairCount(999): expected %d cards, got %d", 2*len(DefaultSymbols), len(c.cards))
	}

	snap := c.Snapshot()
	if snap.PairCount != len(DefaultSymbols) {
		t.Errorf("Snapshot pair count not clamped: got %d", snap.PairCount)
	}
}

func TestResetIdempotence(t *testing.T) {
	c := newTestController(6)
	for round := range 2 {
		c.Reset()
		contentCount := make(map[string]int)
		for _, card := range c.cards {
			if card.FaceUp || card.Matched {
				t.Fatalf("Round %d: card not freshly built", round)
			}
			contentCount[card.Content]++
		}
		if len(contentCount) != 6 {
			t.Fatalf("Round %d: expected 6 distinct symbols, got %d", round, len(contentCount))
		}
		for content, count := range contentCount {
			if count != 2 {
				t.Fatalf("Round %d: symbol %s appears %d times", round, content, count)
			}
		}
	}
}

func TestWinCondition(t *testing.T) {
	synctest.Test(t, func(t *testing.T) {
		c := newTestController(2)
		if c.Won() {
			t.Fatal("Fresh board reports won")
		}

		for !c.Won() {
			i, j := findPair(c)
			if i < 0 {
				t.Fatal("No pair left but board not won")
			}
			c.HandleTap(i)
			c.HandleTap(j)
			time.Sleep(MatchResolveDelay + time.Millisecond)
			synctest.Wait()
		}

		snap := c.Snapshot()
		if !snap.Won {
			t.Error("Snapshot should report won")
		}
		if snap.MatchedPairs != 2 {
			t.Errorf("Expected 2 matched pairs, got %d", snap.MatchedPairs)
		}
	})
}

func TestSubscribeNotifies(t *testing.T) {
	c := newTestController(3)

	var got []Snapshot
	c.Subscribe("test", func(s Snapshot) {
		got = append(got, s)
	})

	c.HandleTap(0)
	if len(got) != 1 {
		t.Fatalf("Expected 1 notification, got %d", len(got))
	}
	faceUp := 0
	for _, cv := range got[0].Cards {
		if cv.FaceUp {
			faceUp++
		}
	}
	if faceUp != 1 {
		t.Errorf("Snapshot should show 1 face-up card, got %d", faceUp)
	}

	c.Unsubscribe("test")
	c.Reset()
	if len(got) != 1 {
		t.Errorf("Unsubscribed listener was still notified (%d notifications)", len(got))
	}
}
