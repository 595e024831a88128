// internal/models/size_chart.go
package models

import (
	"strings"
)

type Unit string

const (
	UnitInches      Unit = "in"
	UnitCentimeters Unit = "cm"
)

func (u Unit) Valid() bool {
	return u == UnitInches || u == UnitCentimeters
}

// SizeChartHeader stores the label without its unit. Label derives the display text so a
// unit change never rewrites stored text.
type SizeChartHeader struct {
	Key        string `json:"key"`
	BaseLabel  string `json:"baseLabel"`
	UnitScoped bool   `json:"unitScoped"`
}

func (h SizeChartHeader) Label(unit Unit) string {
	if !h.UnitScoped {
		return h.BaseLabel
	}
	return h.BaseLabel + " (" + string(unit) + ")"
}

// ParseHeaderLabel splits a trailing " (in)" or " (cm)" off a label.
func ParseHeaderLabel(label string) (base string, unitScoped bool) {
	trimmed := strings.TrimSpace(label)
	for _, unit := range []Unit{UnitInches, UnitCentimeters} {
		suffix := "(" + string(unit) + ")"
		if strings.HasSuffix(trimmed, suffix) {
			return strings.TrimSpace(strings.TrimSuffix(trimmed, suffix)), true
		}
	}
	return trimmed, false
}

type SizeChartRow struct {
	Size         string       `json:"size"`
	Measurements Measurements `json:"measurements"`
}

type SizeChart struct {
	Unit          Unit              `json:"unit"`
	Headers       []SizeChartHeader `json:"headers"`
	Rows          []SizeChartRow    `json:"rows"`
	MeasureImages []ImageSlot       `json:"measureImages"`
}

func NewSizeChart() SizeChart {
	return SizeChart{
		Unit:          UnitInches,
		Headers:       []SizeChartHeader{},
		Rows:          []SizeChartRow{},
		MeasureImages: []ImageSlot{},
	}
}

func (c SizeChart) HeaderIndex(key string) int {
	for i, h := range c.Headers {
		if h.Key == key {
			return i
		}
	}
	return -1
}

func (c SizeChart) clone() SizeChart {
	out := c
	if c.Headers != nil {
		out.Headers = append([]SizeChartHeader{}, c.Headers...)
	}
	if c.Rows != nil {
		out.Rows = make([]SizeChartRow, len(c.Rows))
		for i, row := range c.Rows {
			out.Rows[i] = SizeChartRow{
				Size:         row.Size,
				Measurements: append(Measurements(nil), row.Measurements...),
			}
		}
	}
	out.MeasureImages = cloneSlots(c.MeasureImages)
	return out
}
