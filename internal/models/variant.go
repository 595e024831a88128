// internal/models/variant.go
package models

import (
	"strings"
)

const DefaultColorHex = "#000000"

// SizeSet is the ordered enumeration of size labels a variant is stocked in.
type SizeSet []string

var DefaultSizeSet = SizeSet{"S", "M", "L", "XL"}

// ParseSizeSet reads a comma separated list of labels. Blank and repeated labels are
// skipped; an empty result falls back to DefaultSizeSet.
func ParseSizeSet(raw string) SizeSet {
	var set SizeSet
	for _, part := range strings.Split(raw, ",") {
		label := strings.TrimSpace(part)
		if label == "" || set.Contains(label) {
			continue
		}
		set = append(set, label)
	}
	if len(set) == 0 {
		return append(SizeSet(nil), DefaultSizeSet...)
	}
	return set
}

func (s SizeSet) Contains(label string) bool {
	return s.Index(label) >= 0
}

func (s SizeSet) Index(label string) int {
	for i, l := range s {
		if l == label {
			return i
		}
	}
	return -1
}

// SizeTier is the stock record for one size label. A nil Stock means the size is not offered.
type SizeTier struct {
	Size  string `json:"size"`
	SKU   string `json:"sku"`
	Stock *int   `json:"stock"`
}

func (t SizeTier) HasStock() bool {
	return t.Stock != nil
}

type Variant struct {
	ColorName string      `json:"colorName"`
	ColorHex  string      `json:"colorHex"`
	Images    []ImageSlot `json:"images"`
	Sizes     []SizeTier  `json:"sizes"`
}

func NewVariant(sizes SizeSet) Variant {
	tiers := make([]SizeTier, 0, len(sizes))
	for _, label := range sizes {
		tiers = append(tiers, SizeTier{Size: label})
	}
	return Variant{
		ColorHex: DefaultColorHex,
		Images:   []ImageSlot{},
		Sizes:    tiers,
	}
}

// Named reports whether the variant survives encoding.
func (v Variant) Named() bool {
	return strings.TrimSpace(v.ColorName) != ""
}

func (v Variant) clone() Variant {
	out := v
	out.Images = cloneSlots(v.Images)
	if v.Sizes != nil {
		out.Sizes = make([]SizeTier, len(v.Sizes))
		for i, tier := range v.Sizes {
			out.Sizes[i] = tier
			if tier.Stock != nil {
				stock := *tier.Stock
				out.Sizes[i].Stock = &stock
			}
		}
	}
	return out
}
