package game

import "github.com/lox/blackjack/internal/deck"

// EventType represents a round event type with type safety
type EventType string

const (
	EventTypePlayerRemoved EventType = "player_removed"
	EventTypeBetsPlaced    EventType = "bets_placed"
	EventTypeInitialDeal   EventType = "initial_deal"
	EventTypeTableMoves    EventType = "table_moves"
	EventTypeHandAction    EventType = "hand_action"
	EventTypeInvalidMove   EventType = "invalid_move"
	EventTypeDealerFinal   EventType = "dealer_final"
	EventTypeSettlement    EventType = "settlement"
)

// String returns the string representation of the event type
func (et EventType) String() string {
	return string(et)
}

// Event is anything a round reports to its display
type Event interface {
	EventType() EventType
}

// SeatBet is one player's wager for the round
type SeatBet struct {
	Player   string
	Bet      int
	Bankroll int // after the bet was taken
}

// HandSummary describes one hand at the moment an event is published
type HandSummary struct {
	Player  string
	Cards   []deck.Card
	Total   int
	Bet     int
	Actions []Action
	Outcome Outcome
	Payout  int
}

func summarize(player string, h *Hand) HandSummary {
	return HandSummary{
		Player:  player,
		Cards:   append([]deck.Card(nil), h.Cards...),
		Total:   h.Total(),
		Bet:     h.Bet,
		Actions: h.Actions(),
		Outcome: h.outcome,
		Payout:  h.payout,
	}
}

// PlayerRemovedEvent is published when a player without bankroll leaves
type PlayerRemovedEvent struct {
	Round  int
	Player string
	Human  bool
}

func (e PlayerRemovedEvent) EventType() EventType { return EventTypePlayerRemoved }

// BetsPlacedEvent is published once every bet has been taken
type BetsPlacedEvent struct {
	Round int
	Bets  []SeatBet
}

func (e BetsPlacedEvent) EventType() EventType { return EventTypeBetsPlaced }

// InitialDealEvent is published after the two-card deal
type InitialDealEvent struct {
	Round  int
	Upcard deck.Card
	Hands  []HandSummary
}

func (e InitialDealEvent) EventType() EventType { return EventTypeInitialDeal }

// TableMovesEvent shows what everyone before a human has done so far
type TableMovesEvent struct {
	Round int
	Hands []HandSummary
}

func (e TableMovesEvent) EventType() EventType { return EventTypeTableMoves }

// HandActionEvent is published after each action is applied
type HandActionEvent struct {
	Round  int
	Player string
	Action Action
	Hand   HandSummary
}

func (e HandActionEvent) EventType() EventType { return EventTypeHandAction }

// InvalidMoveEvent reports a refused action from an interactive player
type InvalidMoveEvent struct {
	Round  int
	Player string
	Action Action
	Reason string
}

func (e InvalidMoveEvent) EventType() EventType { return EventTypeInvalidMove }

// DealerFinalEvent is published once the dealer stops drawing
type DealerFinalEvent struct {
	Round int
	Cards []deck.Card
	Total int
}

func (e DealerFinalEvent) EventType() EventType { return EventTypeDealerFinal }

// SettlementEvent carries every hand's outcome and the resulting bankrolls
type SettlementEvent struct {
	Round       int
	DealerTotal int
	Hands       []HandSummary
	Bankrolls   map[string]int
}

func (e SettlementEvent) EventType() EventType { return EventTypeSettlement }

// EventSubscriber can subscribe to round events
type EventSubscriber interface {
	OnEvent(event Event)
}

// EventBus manages event publishing and subscription
type EventBus interface {
	Subscribe(subscriber EventSubscriber)
	Unsubscribe(subscriber EventSubscriber)
	Publish(event Event)
}

// SimpleEventBus is a synchronous in-memory event bus
type SimpleEventBus struct {
	subscribers []EventSubscriber
}

// NewEventBus creates a new event bus
func NewEventBus() *SimpleEventBus {
	return &SimpleEventBus{}
}

// Subscribe adds a subscriber to receive events
func (bus *SimpleEventBus) Subscribe(subscriber EventSubscriber) {
	bus.subscribers = append(bus.subscribers, subscriber)
}

// Unsubscribe removes a subscriber from receiving events
func (bus *SimpleEventBus) Unsubscribe(subscriber EventSubscriber) {
	for i, sub := range bus.subscribers {
		if sub == subscriber {
			bus.subscribers = append(bus.subscribers[:i], bus.subscribers[i+1:]...)
			break
		}
	}
}

// Publish delivers the event to every subscriber in order
func (bus *SimpleEventBus) Publish(event Event) {
	for _, subscriber := range bus.subscribers {
		subscriber.OnEvent(event)
	}
}
