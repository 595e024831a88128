// internal/services/payload_encoder.go
package services

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/javajoker/catalog-admin/internal/models"
)

const (
	FieldVariants      = "variants"
	FieldFilters       = "filters"
	FieldCare          = "care"
	FieldSizeChart     = "sizeChart"
	FieldMeasureImages = "measureImages"
)

// VariantFileField is the repeatable binary field for one color.
func VariantFileField(colorName string) string {
	return fmt.Sprintf("variants[%s]", colorName)
}

func CareIconField(index int) string {
	return fmt.Sprintf("careInstructionIcons[%d]", index)
}

func measureImageKey(n int) string {
	return fmt.Sprintf("%s[%d]", FieldMeasureImages, n)
}

type wireColor struct {
	Name             string `json:"name"`
	Hex              string `json:"hex"`
	IsMultipleImages bool   `json:"isMultipleImages"`
	TotalImages      int    `json:"totalImages"`
}

type wireImage struct {
	Order int    `json:"order"`
	URL   string `json:"url,omitempty"`
}

type wireSize struct {
	SKU   string `json:"sku"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

type wireVariant struct {
	Color  wireColor   `json:"color"`
	Images []wireImage `json:"images"`
	Sizes  []wireSize  `json:"sizes"`
}

type wireCareInstruction struct {
	IconURL string `json:"iconUrl"`
	IconKey string `json:"iconKey"`
	Text    string `json:"text"`
}

type wireCare struct {
	Description  string                `json:"description"`
	Instructions []wireCareInstruction `json:"instructions"`
}

type wireHeader struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type wireRow struct {
	Size         string              `json:"size"`
	Measurements models.Measurements `json:"measurements"`
}

type wireMeasureImage struct {
	ImageKey string `json:"imageKey,omitempty"`
	URL      string `json:"url,omitempty"`
}

type wireSizeChart struct {
	Unit         string             `json:"unit"`
	Headers      []wireHeader       `json:"headers"`
	Rows         []wireRow          `json:"rows"`
	MeasureImage []wireMeasureImage `json:"measureImage"`
}

type wirePolicy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	IconKey     string `json:"iconKey"`
}

// namedVariant is a variant that passed the filter phase, with its trimmed color name.
type namedVariant struct {
	name    string
	variant models.Variant
}

// selectNamedVariants is the filter phase: blank names are dropped, names carrying control
// characters are dropped, and so is any variant whose trimmed name repeats an earlier one.
func selectNamedVariants(variants []models.Variant) ([]namedVariant, []DroppedVariant) {
	kept := make([]namedVariant, 0, len(variants))
	dropped := []DroppedVariant{}
	seen := make(map[string]bool, len(variants))
	for i, v := range variants {
		name := strings.TrimSpace(v.ColorName)
		switch {
		case name == "":
			dropped = append(dropped, DroppedVariant{Index: i, ColorName: v.ColorName, Reason: DropReasonBlankName})
		case hasControl(name):
			dropped = append(dropped, DroppedVariant{Index: i, ColorName: name, Reason: DropReasonInvalidName})
		case seen[name]:
			dropped = append(dropped, DroppedVariant{Index: i, ColorName: name, Reason: DropReasonDuplicateName})
		default:
			seen[name] = true
			kept = append(kept, namedVariant{name: name, variant: v})
		}
	}
	return kept, dropped
}

func hasControl(s string) bool {
	return strings.IndexFunc(s, unicode.IsControl) >= 0
}

// requireVariants is the check phase run on the filtered list.
func requireVariants(kept []namedVariant) error {
	if len(kept) == 0 {
		return &ValidationError{Message: MsgVariantRequired}
	}
	return nil
}

// EncodePayload flattens an item into the multipart field bag the backend expects.
// It is a pure function of its input: the same item always yields the same fields.
func EncodePayload(item models.Item, mode EncodeMode) (*Payload, error) {
	kept, dropped := selectNamedVariants(item.Variants)
	if err := requireVariants(kept); err != nil {
		return nil, err
	}

	p := &Payload{Mode: mode, Dropped: dropped}
	if mode == EncodeModeEdit {
		p.ItemID = item.ID
	}

	encodeScalars(p, item)

	if err := p.addJSON(FieldVariants, wireVariants(kept)); err != nil {
		return nil, err
	}
	attachVariantFiles(p, kept)

	if err := p.addJSON(FieldCare, wireCareBlock(item.Care)); err != nil {
		return nil, err
	}
	for i, inst := range item.Care.Instructions {
		if inst.IconFile != nil {
			p.addFile(CareIconField(i), inst.IconFile)
		}
	}

	chart, measureFiles := wireChart(item.SizeChart)
	if err := p.addJSON(FieldSizeChart, chart); err != nil {
		return nil, err
	}
	for _, f := range measureFiles {
		p.addFile(FieldMeasureImages, f)
	}

	for _, kind := range models.PolicyKinds {
		block := item.Policy(kind)
		if err := p.addJSON(string(kind), wirePolicy{
			Title:       block.Title,
			Description: block.Description,
			IconURL:     block.IconURL,
			IconKey:     block.IconKey,
		}); err != nil {
			return nil, err
		}
		if block.IconFile != nil {
			p.addFile(kind.IconField(), block.IconFile)
		}
	}

	if err := p.addJSON(FieldFilters, wireFilters(item.Filters)); err != nil {
		return nil, err
	}

	return p, nil
}

func encodeScalars(p *Payload, item models.Item) {
	p.addText(string(models.FieldName), item.Name)
	p.addText(string(models.FieldShortDescription), item.ShortDescription)
	p.addText(string(models.FieldLongDescription), item.LongDescription)
	p.addText(string(models.FieldPrice), item.Price)
	p.addText(string(models.FieldDiscountedPrice), item.DiscountedPrice)
	p.addText(string(models.FieldProductID), item.ProductID)
	p.addText(string(models.FieldCategoryID), item.CategoryID)
	p.addText(string(models.FieldSubcategoryID), item.SubcategoryID)
	p.addText(string(models.FieldDefaultColor), item.DefaultColorName)
	p.addText("isActive", strconv.FormatBool(item.IsActive))
}

func wireVariants(kept []namedVariant) []wireVariant {
	out := make([]wireVariant, 0, len(kept))
	for _, nv := range kept {
		v := nv.variant
		images := make([]wireImage, 0, len(v.Images))
		for i, slot := range v.Images {
			img := wireImage{Order: i + 1}
			if !slot.IsPending() {
				img.URL = slot.URL
			}
			images = append(images, img)
		}
		sizes := make([]wireSize, 0, len(v.Sizes))
		for _, tier := range v.Sizes {
			if !tier.HasStock() {
				continue
			}
			sizes = append(sizes, wireSize{SKU: tier.SKU, Size: tier.Size, Stock: *tier.Stock})
		}
		out = append(out, wireVariant{
			Color: wireColor{
				Name:             nv.name,
				Hex:              v.ColorHex,
				IsMultipleImages: len(v.Images) > 1,
				TotalImages:      len(v.Images),
			},
			Images: images,
			Sizes:  sizes,
		})
	}
	return out
}

// attachVariantFiles groups pending images by the color name read now. Surviving names
// are unique and AddImages keeps pending slots unique, so every key holds one entry per
// pending image in slot order.
func attachVariantFiles(p *Payload, kept []namedVariant) {
	for _, nv := range kept {
		key := VariantFileField(nv.name)
		for _, slot := range nv.variant.Images {
			if slot.IsPending() {
				p.addFile(key, slot.File)
			}
		}
	}
}

func wireFilters(filters []models.Filter) []models.Filter {
	if filters == nil {
		return []models.Filter{}
	}
	return filters
}

func wireCareBlock(care models.CareBlock) wireCare {
	out := wireCare{
		Description:  care.Description,
		Instructions: make([]wireCareInstruction, 0, len(care.Instructions)),
	}
	for _, inst := range care.Instructions {
		out.Instructions = append(out.Instructions, wireCareInstruction{
			IconURL: inst.IconURL,
			IconKey: inst.IconKey,
			Text:    inst.Text,
		})
	}
	return out
}

func wireChart(chart models.SizeChart) (wireSizeChart, []*models.FileUpload) {
	unit := chart.Unit
	if !unit.Valid() {
		unit = models.UnitInches
	}
	out := wireSizeChart{
		Unit:         string(unit),
		Headers:      make([]wireHeader, 0, len(chart.Headers)),
		Rows:         make([]wireRow, 0, len(chart.Rows)),
		MeasureImage: make([]wireMeasureImage, 0, len(chart.MeasureImages)),
	}
	for _, h := range chart.Headers {
		out.Headers = append(out.Headers, wireHeader{Key: h.Key, Label: h.Label(unit)})
	}
	for _, row := range chart.Rows {
		measurements := row.Measurements
		if measurements == nil {
			measurements = models.Measurements{}
		}
		out.Rows = append(out.Rows, wireRow{Size: row.Size, Measurements: measurements})
	}

	var files []*models.FileUpload
	for _, slot := range chart.MeasureImages {
		if slot.IsPending() {
			out.MeasureImage = append(out.MeasureImage, wireMeasureImage{ImageKey: measureImageKey(len(files))})
			files = append(files, slot.File)
			continue
		}
		out.MeasureImage = append(out.MeasureImage, wireMeasureImage{URL: slot.URL})
	}
	return out, files
}
