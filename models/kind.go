package models

// EntityKind enumerates the resources exposed through the generic CRUD routes.
type EntityKind int

const (
	KindCustomers EntityKind = iota
	KindMenu
	KindInventory
	KindComponents
	KindTabs
	KindPurchases
)

// EntityKinds lists every kind in routing order.
var EntityKinds = []EntityKind{
	KindCustomers,
	KindMenu,
	KindInventory,
	KindComponents,
	KindTabs,
	KindPurchases,
}

// Slug is the URL segment for the kind.
func (k EntityKind) Slug() string {
	switch k {
	case KindCustomers:
		return "customers"
	case KindMenu:
		return "menu"
	case KindInventory:
		return "inventory"
	case KindComponents:
		return "components"
	case KindTabs:
		return "tabs"
	case KindPurchases:
		return "purchases"
	}
	return ""
}

func (k EntityKind) String() string {
	return k.Slug()
}

// HasCategories reports whether the kind carries its own category taxonomy.
func (k EntityKind) HasCategories() bool {
	return k == KindMenu || k == KindInventory
}

func ParseEntityKind(s string) (EntityKind, bool) {
	for _, k := range EntityKinds {
		if k.Slug() == s {
			return k, true
		}
	}
	return 0, false
}
