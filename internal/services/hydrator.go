// internal/services/hydrator.go
package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/javajoker/catalog-admin/internal/models"
)

const (
	WarnSizeNotEnumerated = "size_not_enumerated"
	WarnDuplicateSize     = "duplicate_size"
)

// HydrationWarning reports backend data the editor could not represent.
type HydrationWarning struct {
	Code      string `json:"code"`
	Variant   int    `json:"variant"`
	ColorName string `json:"color_name"`
	Size      string `json:"size"`
	Message   string `json:"message"`
}

type HydrationResult struct {
	Item     models.Item        `json:"item"`
	Warnings []HydrationWarning `json:"warnings"`
}

// DecodeItemResponse unwraps {"item": ...}, {"data": {"item": ...}} or {"data": ...}
// envelopes, falling back to a bare record. A body without an item is ErrHydrationNotFound.
func DecodeItemResponse(body []byte) (*models.ServerRecord, error) {
	body = bytes.TrimSpace(body)
	if len(body) == 0 || bytes.Equal(body, []byte("null")) {
		return nil, ErrHydrationNotFound
	}

	var envelope struct {
		Item json.RawMessage `json:"item"`
		Data json.RawMessage `json:"data"`
		ID   string          `json:"_id"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("failed to decode item response: %w", err)
	}

	raw := envelope.Item
	if isEmptyJSON(raw) && !isEmptyJSON(envelope.Data) {
		var inner struct {
			Item json.RawMessage `json:"item"`
		}
		if err := json.Unmarshal(envelope.Data, &inner); err == nil && !isEmptyJSON(inner.Item) {
			raw = inner.Item
		} else {
			raw = envelope.Data
		}
	}
	if isEmptyJSON(raw) {
		if envelope.ID == "" {
			return nil, ErrHydrationNotFound
		}
		raw = body
	}

	var record models.ServerRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode item: %w", err)
	}
	return &record, nil
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte("{}"))
}

// HydrateItem builds an editable item from a persisted record. Every pending slot is
// empty and every persisted reference mirrors the backend, so an unmodified resubmission
// reproduces the record.
func HydrateItem(record *models.ServerRecord, sizes models.SizeSet) (*HydrationResult, error) {
	if record == nil {
		return nil, ErrHydrationNotFound
	}

	item := models.NewItem(sizes)
	item.ID = record.ID
	item.Name = record.Name
	item.ProductID = record.ProductID.String()
	item.ShortDescription = record.ShortDescription
	item.LongDescription = record.LongDescription
	item.Price = record.Price.String()
	item.DiscountedPrice = record.DiscountedPrice.String()
	item.CategoryID = record.CategoryID.String()
	item.SubcategoryID = record.SubcategoryID.String()
	item.DefaultColorName = record.DefaultColor
	if record.IsActive != nil {
		item.IsActive = *record.IsActive
	}

	result := &HydrationResult{Warnings: []HydrationWarning{}}
	for i, rv := range record.Variants {
		variant, warnings := hydrateVariant(i, rv, item.SizeSet)
		item.Variants = append(item.Variants, variant)
		result.Warnings = append(result.Warnings, warnings...)
	}

	if record.Filters != nil {
		item.Filters = append([]models.Filter{}, record.Filters...)
	}

	if record.Care != nil {
		item.Care.Description = record.Care.Description
		for _, inst := range record.Care.Instructions {
			item.Care.Instructions = append(item.Care.Instructions, models.CareInstruction{
				Text:    inst.Text,
				IconURL: inst.IconURL,
				IconKey: inst.IconKey,
			})
		}
	}

	if record.SizeChart != nil {
		item.SizeChart = hydrateSizeChart(record.SizeChart)
	}

	for _, kind := range models.PolicyKinds {
		rp := record.Policy(kind)
		if rp == nil {
			continue
		}
		item.Policies[kind] = models.PolicyBlock{
			Title:       rp.Title,
			Description: rp.Description,
			IconURL:     rp.IconURL,
			IconKey:     rp.IconKey,
		}
	}

	result.Item = item
	return result, nil
}

func hydrateVariant(index int, rv models.RecordVariant, sizes models.SizeSet) (models.Variant, []HydrationWarning) {
	variant := models.Variant{
		ColorName: rv.Color.Name,
		ColorHex:  rv.Color.Hex,
		Images:    make([]models.ImageSlot, 0, len(rv.Images)),
		Sizes:     make([]models.SizeTier, 0, len(sizes)),
	}
	if variant.ColorHex == "" {
		variant.ColorHex = models.DefaultColorHex
	}

	for _, img := range orderedImages(rv.Images) {
		variant.Images = append(variant.Images, models.PersistedImage(img.URL, img.ID))
	}

	var warnings []HydrationWarning
	matched := make(map[string]models.RecordSizeTier, len(rv.Sizes))
	for _, tier := range rv.Sizes {
		label := strings.TrimSpace(tier.Size)
		switch {
		case !sizes.Contains(label):
			warnings = append(warnings, HydrationWarning{
				Code:      WarnSizeNotEnumerated,
				Variant:   index,
				ColorName: rv.Color.Name,
				Size:      tier.Size,
				Message:   fmt.Sprintf("size %q is not in the configured size set and was dropped", tier.Size),
			})
		case hasTier(matched, label):
			warnings = append(warnings, HydrationWarning{
				Code:      WarnDuplicateSize,
				Variant:   index,
				ColorName: rv.Color.Name,
				Size:      tier.Size,
				Message:   fmt.Sprintf("size %q appears more than once; the first entry was kept", tier.Size),
			})
		default:
			matched[label] = tier
		}
	}

	for _, label := range sizes {
		tier := models.SizeTier{Size: label}
		if rt, ok := matched[label]; ok {
			tier.SKU = rt.SKU
			if rt.Stock != nil {
				stock := *rt.Stock
				if stock < 0 {
					stock = 0
				}
				tier.Stock = &stock
			}
		}
		variant.Sizes = append(variant.Sizes, tier)
	}
	return variant, warnings
}

func hasTier(m map[string]models.RecordSizeTier, label string) bool {
	_, ok := m[label]
	return ok
}

// orderedImages sorts by the backend order when every image carries one and keeps the
// response order otherwise.
func orderedImages(images []models.RecordImage) []models.RecordImage {
	out := append([]models.RecordImage{}, images...)
	for _, img := range out {
		if img.Order <= 0 {
			return out
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

func hydrateSizeChart(rc *models.RecordSizeChart) models.SizeChart {
	chart := models.NewSizeChart()
	if unit := models.Unit(rc.Unit); unit.Valid() {
		chart.Unit = unit
	}
	for _, h := range rc.Headers {
		if h.Key == "" || chart.HeaderIndex(h.Key) >= 0 {
			continue
		}
		base, scoped := models.ParseHeaderLabel(h.Label)
		chart.Headers = append(chart.Headers, models.SizeChartHeader{Key: h.Key, BaseLabel: base, UnitScoped: scoped})
	}
	for _, row := range rc.Rows {
		measurements := append(models.Measurements{}, row.Measurements...)
		chart.Rows = append(chart.Rows, models.SizeChartRow{Size: row.Size, Measurements: measurements})
	}
	for _, img := range rc.MeasureImage {
		if img.URL == "" {
			continue
		}
		chart.MeasureImages = append(chart.MeasureImages, models.PersistedImage(img.URL, img.ID))
	}
	return chart
}
