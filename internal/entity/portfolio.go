package entity

import "time"

// PortfolioEntry records ownership of a post's future value. A post has at
// most one owner at a time.
type PortfolioEntry struct {
	UserID   string    `json:"user_id"`
	PostID   string    `json:"post_id"`
	BuyPrice int       `json:"buy_price"`
	BoughtAt time.Time `json:"bought"`
}

// Holding is a portfolio entry joined with its post, for the portfolio view.
type Holding struct {
	Post     Post      `json:"post"`
	BuyPrice int       `json:"buy_price"`
	BoughtAt time.Time `json:"bought"`
}

// Listing queues a post for resale when it cannot be sold directly. There is
// no buyer-matching process; a listing is a terminal state.
type Listing struct {
	UserID    string    `json:"user_id"`
	PostID    string    `json:"post_id"`
	Price     int       `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}
