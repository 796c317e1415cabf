package domain

import "time"

// TradeRecord is the persisted form of a closed round trip.
// Prices are stored as strings to keep decimal values exact in SQLite.
type TradeRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Contract   string    `gorm:"index" json:"contract"`
	EntryPrice string    `json:"entry_price"`
	ExitPrice  string    `json:"exit_price"`
	Size       string    `json:"size"`
	Pnl        string    `json:"pnl"`
	Day        string    `gorm:"index" json:"day"` // UTC date, YYYY-MM-DD
	OpenedAt   time.Time `json:"opened_at"`
	ClosedAt   time.Time `json:"closed_at"`
	CreatedAt  time.Time `json:"created_at"`
}

// ToRecord converts a Trade into its persisted form.
func (t *Trade) ToRecord() *TradeRecord {
	return &TradeRecord{
		Contract:   t.Contract,
		EntryPrice: t.EntryPrice.String(),
		ExitPrice:  t.ExitPrice.String(),
		Size:       t.Size.String(),
		Pnl:        t.Pnl.String(),
		Day:        t.ClosedAt.UTC().Format("2006-01-02"),
		OpenedAt:   t.OpenedAt,
		ClosedAt:   t.ClosedAt,
	}
}
