package game

// Card is a single card on the board. Identity is stable for the lifetime
// of the deck it belongs to; a rebuild produces fresh cards.
type Card struct {
	ID      string `json:"id"`
	Content string `json:"content"` // symbol token from the pool
	FaceUp  bool   `json:"face_up"`
	Matched bool   `json:"matched"`
}

// DefaultSymbols is the fixed pool cards draw their content from.
// Its length bounds the maximum pair count.
var DefaultSymbols = []string{
	"🐙", "🦊", "🐸", "🦉", "🐝", "🦀", "🐢", "🦜",
	"🍄", "🌵", "🍉", "🍋", "⚽", "🎲", "🚀", "⚓",
}

// PairChoices are the pair counts offered in the UI. Any value works, the
// deck builder clamps it to the pool size.
var PairChoices = []int{3, 6, 10}
