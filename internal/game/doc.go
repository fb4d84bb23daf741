// Package game implements the blackjack round engine.
//
// The main type is Round, a single-use coordinator that plays one full
// deal-to-settle cycle for a roster of players against the dealer:
//
//	removal -> betting -> initial deal -> naturals -> player turns ->
//	dealer play -> settlement -> shoe recycle
//
// # Basic Usage
//
//	r := game.NewRound(1, players, shoe,
//	    game.WithLogger(logger),
//	    game.WithEvents(bus))
//	result, err := r.Play()
//	if errors.Is(err, game.ErrInvariant) {
//	    // engine defect, stop the run
//	}
//	if result.StopsSession() {
//	    // human quit or ran out of money
//	}
//
// # Money
//
// Bets are taken from the bankroll when placed. Doubles and splits take one
// more bet-unit at the time of the action. Settlement only ever credits:
// 2.5x the bet for a natural, 2x for a win, 1x for a push.
//
// # Deterministic Testing
//
// Round draws from a CardSource, so tests can stack the exact cards a
// scenario needs. Dealing is sequential: each player's two cards in seat
// order, then the dealer's two cards with the first one face up.
package game
