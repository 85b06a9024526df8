package svg

// BarOpts customises the bar chart renderer.
type BarOpts struct {
	Title       string
	Description string
	BarColor    string
	AxisColor   string
	GridColor   string
	Padding     float64
	TickCount   int
}

// DonutOpts customises the donut chart renderer.
type DonutOpts struct {
	Title       string
	Description string
	Colors      []string
	TrackColor  string
	LabelColor  string
	Thickness   float64
}

// Defaults for the dashboard charts.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 24.0
	DefaultTicks   = 6
	DefaultDonut   = 200
)
