package render

import "time"

// Document is the in-memory form of one generated post: narrative
// sections interleaved with tables and figures. It exists only for the
// duration of one run; writing it out is the run's final step.
type Document struct {
	Slug      string
	Title     string
	Generated time.Time
	Sections  []Section
}

// Section is one narrative block of a post.
type Section struct {
	Heading string
	// Prose paragraphs preceding any table or figure in the section.
	Prose  []string
	Table  *TableBlock
	Figure *Figure
}

// TableBlock is a summary table embedded in the post body.
type TableBlock struct {
	Caption string
	Headers []string
	Rows    [][]string
}

// Figure describes one chart as data plus annotations. The site's
// client-side charting consumes the JSON artifact; this package never
// draws anything itself.
type Figure struct {
	// Name becomes the artifact filename, "<name>.json".
	Name        string       `json:"name"`
	Kind        FigureKind   `json:"kind"`
	Caption     string       `json:"caption"`
	XLabel      string       `json:"x_label,omitempty"`
	YLabel      string       `json:"y_label,omitempty"`
	Series      []Series     `json:"series"`
	Annotations []Annotation `json:"annotations,omitempty"`
	Theme       Theme        `json:"theme"`
}

// FigureKind selects the chart type.
type FigureKind string

const (
	KindStep      FigureKind = "step"
	KindScatter   FigureKind = "scatter"
	KindLine      FigureKind = "line"
	KindHistogram FigureKind = "histogram"
)

// Series is one plotted series. X values are pre-formatted strings so the
// chart layer never re-parses dates or numbers.
type Series struct {
	Name string    `json:"name"`
	X    []string  `json:"x"`
	Y    []float64 `json:"y"`
	// Emphasis marks individual points (bar buckets, scatter points)
	// the chart should highlight. Indexes into X/Y; optional.
	Emphasis []int `json:"emphasis,omitempty"`
}

// Annotation is a labelled marker placed at an X position.
type Annotation struct {
	X     string  `json:"x"`
	Y     float64 `json:"y"`
	Label string  `json:"label"`
}
