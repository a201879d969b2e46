package domain

// Category ids accepted for listings
const (
	CategoryElectronics = "eletronicos"
	CategoryFashion     = "moda"
	CategoryHome        = "casa"
	CategorySports      = "esportes"
	CategoryOther       = "outros"
)

// CategoryInfo pairs a category id with its display label
type CategoryInfo struct {
	ID    string `json:"id"`
	Label string `json:"label"`
}

var categories = []CategoryInfo{
	{ID: CategoryElectronics, Label: "Eletrônicos"},
	{ID: CategoryFashion, Label: "Moda"},
	{ID: CategoryHome, Label: "Casa e Decoração"},
	{ID: CategorySports, Label: "Esportes"},
	{ID: CategoryOther, Label: "Outros"},
}

// Categories returns the fixed category list in display order
func Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(categories))
	copy(out, categories)
	return out
}

// IsCategory reports whether id is one of the fixed categories
func IsCategory(id string) bool {
	for _, c := range categories {
		if c.ID == id {
			return true
		}
	}
	return false
}

// CategoryLabel returns the display label for id, or id itself when unknown
func CategoryLabel(id string) string {
	for _, c := range categories {
		if c.ID == id {
			return c.Label
		}
	}
	return id
}
