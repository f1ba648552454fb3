package entity

type RichUser struct {
	Username string `json:"username"`
	Coins    int    `json:"coins"`
}

type ValuablePost struct {
	Text  string `json:"text"`
	Value int    `json:"value"`
}

type Trader struct {
	Username string `json:"username"`
	Trades   int    `json:"trades"`
}

type Leaderboard struct {
	Richest  []RichUser     `json:"richest"`
	Valuable []ValuablePost `json:"valuable"`
	Traders  []Trader       `json:"traders"`
}

type UserStats struct {
	Coins          int  `json:"coins"`
	PostCount      int  `json:"post_count"`
	PortfolioValue int  `json:"portfolio_value"`
	ROI            int  `json:"roi"`
	DMActive       bool `json:"dm_active"`
}
