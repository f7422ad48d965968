package game

import "time"

// Version of the game.
// Bumping this number will eventually make clients reload the WASM.
var Version = "v0.1.0"

// DefaultPairCount is the pair count used when a session is created
// without an explicit choice.
var DefaultPairCount = 6

// MatchResolveDelay is how long both cards of a matched pair stay visible
// before they are retired. Kept short: the player already knows.
var MatchResolveDelay = 250 * time.Millisecond

// MismatchResolveDelay is how long a failed pair stays visible before both
// cards flip back, giving the player time to memorize them.
var MismatchResolveDelay = 900 * time.Millisecond
