package game

// CardView is the renderer-facing representation of a card. Content is only
// filled in while the card is face-up or matched, so a snapshot can never
// leak a hidden symbol to the client.
type CardView struct {
	ID      string `json:"id"`
	Content string `json:"content,omitempty"`
	FaceUp  bool   `json:"face_up"`
	Matched bool   `json:"matched"`
}

// Snapshot is the immutable board state handed to renderers after every
// mutation.
type Snapshot struct {
	Cards        []CardView `json:"cards"`
	PairCount    int        `json:"pair_count"`
	MatchedPairs int        `json:"matched_pairs"`
	Evaluating   bool       `json:"evaluating"`
	Won          bool       `json:"won"`
}

func buildCardViews(cards []*Card) []CardView {
	views := make([]CardView, len(cards))
	for i, c := range cards {
		cv := CardView{
			ID:      c.ID,
			FaceUp:  c.FaceUp,
			Matched: c.Matched,
		}
		if c.FaceUp || c.Matched {
			cv.Content = c.Content
		}
		views[i] = cv
	}
	return views
}
