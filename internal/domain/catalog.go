package domain

// TradeCatalogPageSize is the number of slots shown on one page of a trade
// window. Slot indexes sent by clients are page*TradeCatalogPageSize+position.
const TradeCatalogPageSize = 30

// TradeCatalog is the ordered list of items a merchant sells. It is never
// mutated after NewTradeCatalog returns, so one instance is shared by every
// merchant using the same key and may be read from any goroutine.
type TradeCatalog struct {
	key   string
	items []ItemTemplate
}

func NewTradeCatalog(key string, items []ItemTemplate) *TradeCatalog {
	copied := make([]ItemTemplate, len(items))
	copy(copied, items)

	return &TradeCatalog{
		key:   key,
		items: copied,
	}
}

func (c *TradeCatalog) Key() string {
	if c == nil {
		return ""
	}
	return c.key
}

func (c *TradeCatalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns the template in the given slot.
func (c *TradeCatalog) At(slot int) (ItemTemplate, bool) {
	if c == nil || slot < 0 || slot >= len(c.items) {
		return ItemTemplate{}, false
	}
	return c.items[slot], true
}

func (c *TradeCatalog) PageCount() int {
	n := c.Len()
	if n == 0 {
		return 0
	}
	return (n + TradeCatalogPageSize - 1) / TradeCatalogPageSize
}

// Page returns a copy of the slots on page n (zero based).
func (c *TradeCatalog) Page(n int) []ItemTemplate {
	if n < 0 || n >= c.PageCount() {
		return nil
	}

	start := n * TradeCatalogPageSize
	end := start + TradeCatalogPageSize
	if end > len(c.items) {
		end = len(c.items)
	}

	page := make([]ItemTemplate, end-start)
	copy(page, c.items[start:end])

	return page
}

// Items returns a copy of every slot in order.
func (c *TradeCatalog) Items() []ItemTemplate {
	if c == nil {
		return nil
	}
	items := make([]ItemTemplate, len(c.items))
	copy(items, c.items)
	return items
}

// Slot converts a page and position into a catalog slot index.
func Slot(page, position int) int {
	return page*TradeCatalogPageSize + position
}

// PageOf returns the page a slot index belongs to.
func PageOf(slot int) int {
	return slot / TradeCatalogPageSize
}
