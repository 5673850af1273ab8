package present

// Mark is the chart geometry.
type Mark string

const (
	Bar     Mark = "bar"
	Scatter Mark = "scatter"
)

// Field maps a data column onto a visual channel.
type Field struct {
	Column string `json:"column"`
	Title  string `json:"title"`
	Type   string `json:"type"` // "quantitative" or "nominal"
	Format string `json:"format,omitempty"`
}

// Quant describes a quantitative field.
func Quant(column, title, format string) Field {
	return Field{Column: column, Title: title, Type: "quantitative", Format: format}
}

// Nominal describes a categorical field.
func Nominal(column, title string) Field {
	return Field{Column: column, Title: title, Type: "nominal"}
}

// ColorScale pins category values to colors.
type ColorScale struct {
	Domain []string `json:"domain,omitempty"`
	Range  []string `json:"range,omitempty"`
	Scheme string   `json:"scheme,omitempty"`
}

// Chart is a declarative chart specification. Data rows are keyed by column.
type Chart struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Mark       Mark             `json:"mark"`
	X          Field            `json:"x"`
	Y          Field            `json:"y"`
	Color      *Field           `json:"color,omitempty"`
	ColorScale *ColorScale      `json:"color_scale,omitempty"`
	Size       *Field           `json:"size,omitempty"`
	Labels     *Field           `json:"labels,omitempty"`
	Sort       []string         `json:"sort,omitempty"`
	Tooltips   []Field          `json:"tooltips"`
	Data       []map[string]any `json:"data"`
}
