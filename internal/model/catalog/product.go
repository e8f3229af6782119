package catalog

import "strings"

// Category groups products into the fixed product lines of the catalog.
type Category string

const (
	Dental     Category = "Productos Dentales"
	Ambulatory Category = "Productos Ambulatorios"
	Hospital   Category = "Productos Hospitalarios"
	MyBox      Category = "MyBox Salud"
	Business   Category = "Productos de Empresa"
)

var categories = []Category{Dental, Ambulatory, Hospital, MyBox, Business}

var categoryLabels = map[Category]string{
	Dental:     "Dental",
	Ambulatory: "Ambulatorio",
	Hospital:   "Hospitalario",
	MyBox:      "MyBox",
	Business:   "Empresa",
}

// Categories returns the category enumeration in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// Valid reports whether c belongs to the fixed enumeration.
func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

// Label is the short name shown in the category index.
func (c Category) Label() string {
	return categoryLabels[c]
}

// ParseCategory accepts the full category name or its short label, case-insensitively.
func ParseCategory(raw string) (Category, bool) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	for _, c := range categories {
		if strings.EqualFold(value, string(c)) || strings.EqualFold(value, c.Label()) {
			return c, true
		}
	}
	return "", false
}

// Product is an immutable catalog record.
type Product struct {
	ID               string   `json:"id" validate:"required"`
	Name             string   `json:"name" validate:"required"`
	Category         Category `json:"category" validate:"category"`
	StrongPoint      string   `json:"strongPoint,omitempty"`
	Features         []string `json:"features"`
	Advantages       []string `json:"advantages"`
	Limitations      []string `json:"limitations"`
	DefenseArguments []string `json:"defenseArguments"`
	IdealClient      []string `json:"idealClient,omitempty"`
}
