package domain

type ItemTemplate struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Value     int64  `json:"value"`
	PackSize  int    `json:"pack_size"`
	Droppable bool   `json:"droppable"`
}

// TradeItem is an item offered by an actor for sale to a merchant.
type TradeItem struct {
	TemplateID string `json:"template_id,omitempty"`
	Value      int64  `json:"value"`
	Count      int    `json:"count"`
	PackSize   int    `json:"pack_size"`
	Droppable  bool   `json:"droppable"`
}

// CurrencyItem is the secondary currency a count merchant sells for.
type CurrencyItem struct {
	TemplateID string `json:"template_id"`
	Name       string `json:"name"`
}
