package comparison

import "github.com/zhouzirui/adeslas-assistant/backend/internal/model/catalog"

// NotAvailable is displayed for empty cells.
const NotAvailable = "N/A"

// Kind tells renderers how to decorate the items of a row.
type Kind string

const (
	KindText        Kind = "text"
	KindList        Kind = "list"
	KindAdvantages  Kind = "advantages"
	KindLimitations Kind = "limitations"
)

// Cell is one product's value for a row. Text rows use Text, list rows use Items.
type Cell struct {
	Text  string   `json:"text,omitempty"`
	Items []string `json:"items,omitempty"`
	Empty bool     `json:"empty"`
}

// Row is one compared attribute across every selected product.
type Row struct {
	Key   string `json:"key"`
	Title string `json:"title"`
	Kind  Kind   `json:"kind"`
	Cells []Cell `json:"cells"`
}

// Column identifies a compared product.
type Column struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category catalog.Category `json:"category"`
}

// Table is the comparison grid: one column per product and one row per field.
type Table struct {
	Columns []Column `json:"columns"`
	Rows    []Row    `json:"rows"`
}

type field struct {
	key   string
	title string
	kind  Kind
	value func(catalog.Product) Cell
}

var fields = []field{
	{"category", "Categoría", KindText, func(p catalog.Product) Cell { return textCell(string(p.Category)) }},
	{"strongPoint", "Punto Fuerte", KindText, func(p catalog.Product) Cell { return textCell(p.StrongPoint) }},
	{"features", "Características", KindList, func(p catalog.Product) Cell { return listCell(p.Features) }},
	{"advantages", "Ventajas", KindAdvantages, func(p catalog.Product) Cell { return listCell(p.Advantages) }},
	{"limitations", "Limitaciones", KindLimitations, func(p catalog.Product) Cell { return listCell(p.Limitations) }},
	{"defenseArguments", "Argumentos de Defensa", KindList, func(p catalog.Product) Cell { return listCell(p.DefenseArguments) }},
	{"idealClient", "Cliente Ideal", KindList, func(p catalog.Product) Cell { return listCell(p.IdealClient) }},
}

// Build projects ids onto the catalog. Unknown ids are skipped and the order of
// the remaining ids is kept.
func Build(store catalog.Store, ids []string) Table {
	products := make([]catalog.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := store.FindByID(id); ok {
			products = append(products, p)
		}
	}

	table := Table{
		Columns: make([]Column, len(products)),
		Rows:    make([]Row, len(fields)),
	}
	for i, p := range products {
		table.Columns[i] = Column{ID: p.ID, Name: p.Name, Category: p.Category}
	}
	for i, f := range fields {
		row := Row{Key: f.key, Title: f.title, Kind: f.kind, Cells: make([]Cell, len(products))}
		for j, p := range products {
			row.Cells[j] = f.value(p)
		}
		table.Rows[i] = row
	}
	return table
}

// Display returns the cell as plain text, using NotAvailable for empty cells.
func (c Cell) Display() string {
	if c.Empty {
		return NotAvailable
	}
	if c.Text != "" {
		return c.Text
	}
	out := ""
	for i, item := range c.Items {
		if i > 0 {
			out += "\n"
		}
		out += "• " + item
	}
	return out
}

func textCell(text string) Cell {
	return Cell{Text: text, Empty: text == ""}
}

func listCell(items []string) Cell {
	if len(items) == 0 {
		return Cell{Empty: true}
	}
	return Cell{Items: append([]string(nil), items...)}
}
