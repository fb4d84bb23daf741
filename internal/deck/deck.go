package deck

// Size is the number of cards in a standard deck
const Size = 52

// New returns the 52 canonical cards of a standard deck in a fixed order.
// Callers own the returned slice; shuffling is the shoe's concern.
func New() []Card {
	cards := make([]Card, 0, Size)
	for suit := Hearts; suit <= Spades; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			cards = append(cards, NewCard(rank, suit))
		}
	}
	return cards
}
