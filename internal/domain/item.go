package domain

// ItemType identifies which product family a line item belongs to.
type ItemType string

const (
	ItemTypeMinecraft ItemType = "minecraft"
	ItemTypeVPS       ItemType = "vps"
	ItemTypeBot       ItemType = "bot"
	ItemTypeDomain    ItemType = "domain"
)

func (t ItemType) Valid() bool {
	switch t {
	case ItemTypeMinecraft, ItemTypeVPS, ItemTypeBot, ItemTypeDomain:
		return true
	}
	return false
}

func (t ItemType) String() string {
	return string(t)
}

// LineItem is one row in a cart: a distinct plan/product and its quantity.
// Details is a free-form attribute bag (cpu/ram/storage/...) carried through
// to the order but never interpreted by the cart itself.
type LineItem struct {
	ID       string            `json:"id"`
	Name     string            `json:"name"`
	Price    float64           `json:"price"`
	Type     ItemType          `json:"type"`
	Quantity int               `json:"quantity"`
	Details  map[string]string `json:"details,omitempty"`
}

// Subtotal returns price * quantity for this row.
func (i LineItem) Subtotal() float64 {
	return i.Price * float64(i.Quantity)
}

// Clone returns a deep copy, including the details bag.
func (i LineItem) Clone() LineItem {
	out := i
	if i.Details != nil {
		out.Details = make(map[string]string, len(i.Details))
		for k, v := range i.Details {
			out.Details[k] = v
		}
	}
	return out
}

// CloneItems deep-copies a slice of line items. Used to snapshot cart
// contents at checkout so later cart mutations cannot reach into a
// submitted order.
func CloneItems(items []LineItem) []LineItem {
	if items == nil {
		return nil
	}
	out := make([]LineItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}
