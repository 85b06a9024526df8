package svg

import (
	"fmt"
	"html/template"
	"math"
	"strings"
)

var donutPalette = []string{"#0ea5e9", "#f97316", "#22c55e", "#a855f7", "#eab308"}

// Donut renders a donut chart with one ring segment per value. Non-positive
// values are skipped; when nothing remains a neutral track ring is drawn.
func Donut(size int, values []float64, labels []string, opts DonutOpts) (template.HTML, error) {
	if len(values) != len(labels) {
		return "", fmt.Errorf("svg: labels length must match values")
	}
	if size <= 0 {
		size = DefaultDonut
	}
	thickness := opts.Thickness
	if thickness <= 0 {
		thickness = float64(size) * 0.16
	}
	colors := opts.Colors
	if len(colors) == 0 {
		colors = donutPalette
	}
	trackColor := fallback(opts.TrackColor, "#e2e8f0")
	labelColor := fallback(opts.LabelColor, "#475569")

	center := float64(size) / 2
	radius := center - thickness/2

	total := 0.0
	for _, v := range values {
		if v > 0 {
			total += v
		}
	}

	titleID := makeID(opts.Title, "donut-title")
	descID := makeID(opts.Title, "donut-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", size, size, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Donut chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Share per segment"))))
	b.WriteString(fmt.Sprintf("<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" aria-hidden=\"true\"></circle>", center, center, radius, trackColor, thickness))

	if total > 0 {
		circumference := 2 * math.Pi * radius
		offset := 0.0
		colorIdx := 0
		for i, v := range values {
			if v <= 0 {
				continue
			}
			fraction := v / total
			segment := fraction * circumference
			color := colors[colorIdx%len(colors)]
			colorIdx++
			// Rotate -90deg so segments start at twelve o'clock.
			b.WriteString(fmt.Sprintf(
				"<circle cx=\"%.2f\" cy=\"%.2f\" r=\"%.2f\" fill=\"none\" stroke=\"%s\" stroke-width=\"%.2f\" stroke-dasharray=\"%.2f %.2f\" stroke-dashoffset=\"%.2f\" transform=\"rotate(-90 %.2f %.2f)\" aria-label=\"%s\"></circle>",
				center, center, radius, color, thickness, segment, circumference-segment, -offset, center, center,
				template.HTMLEscapeString(fmt.Sprintf("%s %.0f%%", labels[i], fraction*100)),
			))
			offset += segment
		}
	}

	b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"12\" text-anchor=\"middle\">%s</text>", center, center+4, labelColor, template.HTMLEscapeString(fallback(opts.Title, ""))))
	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
