package game

import (
	"math/rand/v2"
	"sync"
	"time"

	"k8s.io/klog/v2"
)

// Controller drives one board: it owns the deck, judges flipped pairs and
// resolves them after a delay. Methods are safe for concurrent use; taps,
// resets and timer callbacks all serialize on one mutex, so at most one
// resolution timer is ever outstanding (the evaluating lock refuses new
// pairs while one is pending).
type Controller struct {
	mu sync.Mutex

	cards      []*Card
	faceUp     []int // indices of face-up, unmatched cards (0, 1 or transiently 2)
	evaluating bool  // input locked while a pair is being judged

	pairCount int
	pool      []string
	rng       *rand.Rand

	// generation increments on every deck rebuild. A resolution timer
	// captures the generation it was scheduled under and performs no
	// mutation if the deck has been replaced since.
	generation   int
	resolveTimer *time.Timer

	listeners map[string]func(Snapshot)
}

// NewController creates a controller with a freshly built deck.
// pairCount is clamped to the pool size.
func NewController(pairCount int, pool []string, rng *rand.Rand) *Controller {
	c := &Controller{
		pairCount: ClampPairCount(pairCount, pool),
		pool:      pool,
		rng:       rng,
		listeners: make(map[string]func(Snapshot)),
	}
	c.cards = BuildDeck(c.pairCount, c.pool, c.rng)
	return c
}

// Subscribe registers a listener that receives a snapshot after every
// mutation. The key allows replacing or removing it later.
func (c *Controller) Subscribe(key string, fn func(Snapshot)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listeners[key] = fn
}

// Unsubscribe removes the listener registered under key.
func (c *Controller) Unsubscribe(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.listeners, key)
}

// HandleTap processes a tap on the card at index. Invalid taps (evaluation
// in progress, index out of range, card already matched, re-tap of the sole
// face-up card) are silently ignored: stray or late taps are expected from a
// UI and are not errors.
func (c *Controller) HandleTap(index int) {
	c.mu.Lock()
	if c.evaluating || index < 0 || index >= len(c.cards) {
		c.mu.Unlock()
		klog.V(1).Infof("HandleTap(%d): ignored (locked or out of range)", index)
		return
	}
	card := c.cards[index]
	if card.Matched {
		c.mu.Unlock()
		klog.V(1).Infof("HandleTap(%d): ignored (already matched)", index)
		return
	}
	if len(c.faceUp) == 1 && c.faceUp[0] == index {
		c.mu.Unlock()
		klog.V(1).Infof("HandleTap(%d): ignored (same card)", index)
		return
	}

	card.FaceUp = true
	c.faceUp = append(c.faceUp, index)

	if len(c.faceUp) == 2 {
		c.evaluating = true
		i, j := c.faceUp[0], c.faceUp[1]
		gen := c.generation
		if c.cards[i].Content == c.cards[j].Content {
			c.resolveTimer = time.AfterFunc(MatchResolveDelay, func() {
				c.resolveMatch(gen, i, j)
			})
		} else {
			c.resolveTimer = time.AfterFunc(MismatchResolveDelay, func() {
				c.resolveMismatch(gen, i, j)
			})
		}
	}

	c.notifyAndUnlock()
}

// resolveMatch retires both cards of a matched pair. It re-validates the
// generation and bounds first: the deck may have been replaced by a reset
// while the timer was pending.
func (c *Controller) resolveMatch(gen, i, j int) {
	c.mu.Lock()
	if !c.stillValid(gen, i, j) {
		c.mu.Unlock()
		return
	}
	c.cards[i].Matched = true
	c.cards[j].Matched = true
	c.faceUp = nil
	c.evaluating = false
	c.resolveTimer = nil
	c.notifyAndUnlock()
}

// resolveMismatch flips both cards of a failed pair back face-down, with the
// same staleness guard as resolveMatch.
func (c *Controller) resolveMismatch(gen, i, j int) {
	c.mu.Lock()
	if !c.stillValid(gen, i, j) {
		c.mu.Unlock()
		return
	}
	c.cards[i].FaceUp = false
	c.cards[j].FaceUp = false
	c.faceUp = nil
	c.evaluating = false
	c.resolveTimer = nil
	c.notifyAndUnlock()
}

func (c *Controller) stillValid(gen, i, j int) bool {
	if gen != c.generation {
		klog.V(1).Infof("resolve: stale timer (gen %d != %d), dropped", gen, c.generation)
		return false
	}
	return i >= 0 && i < len(c.cards) && j >= 0 && j < len(c.cards)
}

// SetPairCount replaces the pair count and rebuilds the deck. Any pending
// resolution is discarded.
func (c *Controller) SetPairCount(n int) {
	c.mu.Lock()
	c.pairCount = ClampPairCount(n, c.pool)
	c.rebuildLocked()
	c.notifyAndUnlock()
}

// Reset rebuilds the deck with the current pair count.
func (c *Controller) Reset() {
	c.mu.Lock()
	c.rebuildLocked()
	c.notifyAndUnlock()
}

// rebuildLocked replaces the deck wholesale. The generation bump invalidates
// any in-flight timer even if Stop loses the race with an already-fired
// callback blocked on the mutex.
func (c *Controller) rebuildLocked() {
	if c.resolveTimer != nil {
		c.resolveTimer.Stop()
		c.resolveTimer = nil
	}
	c.generation++
	c.cards = BuildDeck(c.pairCount, c.pool, c.rng)
	c.faceUp = nil
	c.evaluating = false
}

// Won reports whether every card has been matched.
func (c *Controller) Won() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.wonLocked()
}

func (c *Controller) wonLocked() bool {
	for _, card := range c.cards {
		if !card.Matched {
			return false
		}
	}
	return true
}

// Snapshot returns the current board state for renderers.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	matched := 0
	for _, card := range c.cards {
		if card.Matched {
			matched++
		}
	}
	return Snapshot{
		Cards:        buildCardViews(c.cards),
		PairCount:    c.pairCount,
		MatchedPairs: matched / 2,
		Evaluating:   c.evaluating,
		Won:          c.wonLocked(),
	}
}

// notifyAndUnlock snapshots the board, releases the mutex and then invokes
// the listeners. Listeners run outside the lock so they may call back into
// the controller.
func (c *Controller) notifyAndUnlock() {
	snap := c.snapshotLocked()
	fns := make([]func(Snapshot), 0, len(c.listeners))
	for _, fn := range c.listeners {
		fns = append(fns, fn)
	}
	c.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}
