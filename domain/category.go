package domain

// DefaultCategoryColor is used when a category is created without a color.
const DefaultCategoryColor = "#8B5CF6"

// Category groups tasks on the board.
type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Color     string `json:"color"`
	IsDefault bool   `json:"is_default"`
}

// CategoryCreate is the payload accepted when creating a category.
type CategoryCreate struct {
	Name  string `json:"name" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

// NewCategory builds a client category. Client categories are never default.
func NewCategory(id string, in CategoryCreate) Category {
	color := in.Color
	if color == "" {
		color = DefaultCategoryColor
	}
	return Category{ID: id, Name: in.Name, Color: color}
}

// DefaultCategories returns the categories every board starts with.
func DefaultCategories() []Category {
	return []Category{
		{ID: "cat-work", Name: "Work", Color: "#8B5CF6", IsDefault: true},
		{ID: "cat-personal", Name: "Personal", Color: "#10B981", IsDefault: true},
		{ID: "cat-shopping", Name: "Shopping", Color: "#F59E0B", IsDefault: true},
		{ID: "cat-health", Name: "Health", Color: "#E11D48", IsDefault: true},
	}
}
