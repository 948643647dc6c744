package model

import "time"

// InventoryItem is a board game with finite stock. StockAvailable moves down
// when reservations hold units and back up when holds are released; it must
// stay within [0, StockTotal] on every write.
type InventoryItem struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	Title           string    `json:"title" bson:"title" validate:"required,min=1,max=100"`
	Category        string    `json:"category" bson:"category" validate:"required,min=1,max=50"`
	MinPlayers      int       `json:"min_players" bson:"min_players" validate:"required,min=1"`
	MaxPlayers      int       `json:"max_players" bson:"max_players" validate:"required,gtefield=MinPlayers"`
	MinAge          int       `json:"min_age" bson:"min_age" validate:"omitempty,min=0,max=21"`
	DurationMinutes int       `json:"duration_minutes" bson:"duration_minutes" validate:"omitempty,min=5"`
	StockTotal      int       `json:"stock_total" bson:"stock_total" validate:"required,min=0"`
	StockAvailable  int       `json:"stock_available" bson:"stock_available" validate:"min=0,ltefield=StockTotal"`
	Active          bool      `json:"active" bson:"active"`
	CreatedAt       time.Time `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// ItemPick is one requested (item, quantity) pair on a create request.
// Duplicate item ids in a request are aggregated by summing quantities.
type ItemPick struct {
	ItemID   string `json:"item_id" validate:"required,mongodb"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
}

// InventoryHold is a unit-count claim against an item's available stock for
// the lifetime of the owning reservation. Holds are embedded in the
// reservation document so they are written and reversed atomically with it.
type InventoryHold struct {
	ItemID   string `json:"item_id" bson:"item_id"`
	Title    string `json:"title" bson:"title"`
	Quantity int    `json:"quantity" bson:"quantity"`
}
