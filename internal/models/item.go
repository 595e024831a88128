// internal/models/item.go
package models

import (
	"strconv"
	"strings"
)

// Item is the editable tree for one catalog item. Every operation below is a pure
// transform: it returns a new Item and leaves the receiver untouched. Invalid input is
// ignored rather than reported.
type Item struct {
	ID               string    `json:"id,omitempty"`
	Name             string    `json:"name"`
	ProductID        string    `json:"productId"`
	ShortDescription string    `json:"shortDescription"`
	LongDescription  string    `json:"longDescription"`
	Price            string    `json:"price"`
	DiscountedPrice  string    `json:"discountedPrice"`
	CategoryID       string    `json:"categoryId"`
	SubcategoryID    string    `json:"subcategoryId"`
	DefaultColorName string    `json:"defaultColor"`
	IsActive         bool      `json:"isActive"`
	Variants         []Variant `json:"variants"`
	Filters          []Filter  `json:"filters"`
	Care             CareBlock `json:"care"`
	SizeChart        SizeChart `json:"sizeChart"`
	Policies         Policies  `json:"policies"`
	SizeSet          SizeSet   `json:"sizeSet"`
}

type ScalarField string

const (
	FieldName             ScalarField = "name"
	FieldProductID        ScalarField = "productId"
	FieldShortDescription ScalarField = "shortDescription"
	FieldLongDescription  ScalarField = "longDescription"
	FieldPrice            ScalarField = "price"
	FieldDiscountedPrice  ScalarField = "discountedPrice"
	FieldCategoryID       ScalarField = "categoryId"
	FieldSubcategoryID    ScalarField = "subcategoryId"
	FieldDefaultColor     ScalarField = "defaultColor"
)

const (
	SizeFieldSKU   = "sku"
	SizeFieldStock = "stock"
)

// NewItem returns an empty item stocked in the given sizes.
func NewItem(sizes SizeSet) Item {
	if len(sizes) == 0 {
		sizes = DefaultSizeSet
	}
	return Item{
		IsActive:  true,
		Variants:  []Variant{},
		Filters:   []Filter{},
		Care:      CareBlock{Instructions: []CareInstruction{}},
		SizeChart: NewSizeChart(),
		Policies:  NewPolicies(),
		SizeSet:   append(SizeSet(nil), sizes...),
	}
}

// Clone deep copies every slice and map so the result can be edited independently.
// Pending binaries are shared because they are immutable.
func (it Item) Clone() Item {
	out := it
	if it.Variants != nil {
		out.Variants = make([]Variant, len(it.Variants))
		for i, v := range it.Variants {
			out.Variants[i] = v.clone()
		}
	}
	if it.Filters != nil {
		out.Filters = append([]Filter{}, it.Filters...)
	}
	out.Care = it.Care.clone()
	out.SizeChart = it.SizeChart.clone()
	if it.Policies != nil {
		out.Policies = it.Policies.clone()
	}
	if it.SizeSet != nil {
		out.SizeSet = append(SizeSet(nil), it.SizeSet...)
	}
	return out
}

func (it Item) SetScalar(field ScalarField, value string) Item {
	next := it.Clone()
	switch field {
	case FieldName:
		next.Name = value
	case FieldProductID:
		next.ProductID = value
	case FieldShortDescription:
		next.ShortDescription = value
	case FieldLongDescription:
		next.LongDescription = value
	case FieldPrice:
		next.Price = value
	case FieldDiscountedPrice:
		next.DiscountedPrice = value
	case FieldCategoryID:
		next.CategoryID = value
	case FieldSubcategoryID:
		next.SubcategoryID = value
	case FieldDefaultColor:
		next.DefaultColorName = value
	}
	return next
}

func (it Item) SetActive(active bool) Item {
	next := it.Clone()
	next.IsActive = active
	return next
}

func (it Item) sizes() SizeSet {
	if len(it.SizeSet) == 0 {
		return DefaultSizeSet
	}
	return it.SizeSet
}

func (it Item) hasVariant(v int) bool {
	return v >= 0 && v < len(it.Variants)
}

// --- Variants ---

func (it Item) AddVariant() Item {
	next := it.Clone()
	next.Variants = append(next.Variants, NewVariant(next.sizes()))
	return next
}

// SetVariantColor updates only the non-nil fields. Names are not checked for uniqueness here.
// A blank hex leaves the current color in place.
func (it Item) SetVariantColor(v int, name, hex *string) Item {
	if !it.hasVariant(v) {
		return it
	}
	next := it.Clone()
	if name != nil {
		next.Variants[v].ColorName = *name
	}
	if hex != nil && strings.TrimSpace(*hex) != "" {
		next.Variants[v].ColorHex = strings.TrimSpace(*hex)
	}
	return next
}

func (it Item) RemoveVariant(v int) Item {
	if !it.hasVariant(v) {
		return it
	}
	next := it.Clone()
	next.Variants = append(next.Variants[:v], next.Variants[v+1:]...)
	return next
}

// AddImages appends files to a variant, dropping any already pending on it.
// It returns the new item and how many files were actually added.
func (it Item) AddImages(v int, files []FileUpload) (Item, int) {
	if !it.hasVariant(v) {
		return it, 0
	}
	next := it.Clone()
	var added int
	next.Variants[v].Images, added = appendUniqueImages(next.Variants[v].Images, files)
	return next, added
}

func (it Item) RemoveImage(v, i int) Item {
	if !it.hasVariant(v) {
		return it
	}
	next := it.Clone()
	next.Variants[v].Images = removeSlot(next.Variants[v].Images, i)
	return next
}

// MoveImage repositions an image; moving to 0 makes it the cover.
func (it Item) MoveImage(v, from, to int) Item {
	if !it.hasVariant(v) {
		return it
	}
	next := it.Clone()
	next.Variants[v].Images = moveSlot(next.Variants[v].Images, from, to)
	return next
}

// SetSizeField updates sku or stock on one tier. An empty stock unsets it, a
// non-numeric stock is ignored and a negative one is clamped to zero.
func (it Item) SetSizeField(v, s int, field, value string) Item {
	if !it.hasVariant(v) || s < 0 || s >= len(it.Variants[v].Sizes) {
		return it
	}
	switch field {
	case SizeFieldSKU:
		next := it.Clone()
		next.Variants[v].Sizes[s].SKU = value
		return next
	case SizeFieldStock:
		trimmed := strings.TrimSpace(value)
		if trimmed == "" {
			next := it.Clone()
			next.Variants[v].Sizes[s].Stock = nil
			return next
		}
		stock, err := strconv.Atoi(trimmed)
		if err != nil {
			return it
		}
		if stock < 0 {
			stock = 0
		}
		next := it.Clone()
		next.Variants[v].Sizes[s].Stock = &stock
		return next
	}
	return it
}

// --- Filters ---

func (it Item) AddFilter() Item {
	next := it.Clone()
	next.Filters = append(next.Filters, Filter{})
	return next
}

func (it Item) UpdateFilter(i int, field, value string) Item {
	if i < 0 || i >= len(it.Filters) {
		return it
	}
	next := it.Clone()
	switch field {
	case "key":
		next.Filters[i].Key = value
	case "value":
		next.Filters[i].Value = value
	default:
		return it
	}
	return next
}

func (it Item) RemoveFilter(i int) Item {
	if i < 0 || i >= len(it.Filters) {
		return it
	}
	next := it.Clone()
	next.Filters = append(next.Filters[:i], next.Filters[i+1:]...)
	return next
}

// --- Care ---

func (it Item) SetCareDescription(description string) Item {
	next := it.Clone()
	next.Care.Description = description
	return next
}

func (it Item) AddCareInstruction() Item {
	next := it.Clone()
	next.Care.Instructions = append(next.Care.Instructions, CareInstruction{})
	return next
}

func (it Item) UpdateCareInstruction(i int, text string) Item {
	if i < 0 || i >= len(it.Care.Instructions) {
		return it
	}
	next := it.Clone()
	next.Care.Instructions[i].Text = text
	return next
}

// SetCareInstructionIcon replaces any pending icon on the instruction.
func (it Item) SetCareInstructionIcon(i int, file FileUpload) Item {
	if i < 0 || i >= len(it.Care.Instructions) {
		return it
	}
	next := it.Clone()
	f := file
	next.Care.Instructions[i].IconFile = &f
	return next
}

func (it Item) RemoveCareInstruction(i int) Item {
	if i < 0 || i >= len(it.Care.Instructions) {
		return it
	}
	next := it.Clone()
	next.Care.Instructions = append(next.Care.Instructions[:i], next.Care.Instructions[i+1:]...)
	return next
}

// --- Size chart ---

// AddSizeChartHeader appends a header. Blank or already used keys are ignored and
// existing rows are not back-filled.
func (it Item) AddSizeChartHeader(key, label string) Item {
	key = strings.TrimSpace(key)
	if key == "" || it.SizeChart.HeaderIndex(key) >= 0 {
		return it
	}
	base, scoped := ParseHeaderLabel(label)
	next := it.Clone()
	next.SizeChart.Headers = append(next.SizeChart.Headers, SizeChartHeader{
		Key:        key,
		BaseLabel:  base,
		UnitScoped: scoped,
	})
	return next
}

// RemoveSizeChartHeader drops the header only; row values for the key stay behind.
func (it Item) RemoveSizeChartHeader(key string) Item {
	idx := it.SizeChart.HeaderIndex(key)
	if idx < 0 {
		return it
	}
	next := it.Clone()
	next.SizeChart.Headers = append(next.SizeChart.Headers[:idx], next.SizeChart.Headers[idx+1:]...)
	return next
}

// AddSizeChartRow appends a row with an empty value for every current header.
func (it Item) AddSizeChartRow() Item {
	next := it.Clone()
	row := SizeChartRow{Measurements: Measurements{}}
	for _, h := range next.SizeChart.Headers {
		row.Measurements = row.Measurements.Set(h.Key, "")
	}
	next.SizeChart.Rows = append(next.SizeChart.Rows, row)
	return next
}

func (it Item) SetSizeChartRowSize(r int, size string) Item {
	if r < 0 || r >= len(it.SizeChart.Rows) {
		return it
	}
	next := it.Clone()
	next.SizeChart.Rows[r].Size = size
	return next
}

func (it Item) SetMeasurement(r int, key, value string) Item {
	if r < 0 || r >= len(it.SizeChart.Rows) || key == "" {
		return it
	}
	next := it.Clone()
	next.SizeChart.Rows[r].Measurements = next.SizeChart.Rows[r].Measurements.Set(key, value)
	return next
}

func (it Item) RemoveSizeChartRow(r int) Item {
	if r < 0 || r >= len(it.SizeChart.Rows) {
		return it
	}
	next := it.Clone()
	next.SizeChart.Rows = append(next.SizeChart.Rows[:r], next.SizeChart.Rows[r+1:]...)
	return next
}

func (it Item) AddMeasureImages(files []FileUpload) (Item, int) {
	next := it.Clone()
	var added int
	next.SizeChart.MeasureImages, added = appendUniqueImages(next.SizeChart.MeasureImages, files)
	return next, added
}

func (it Item) RemoveMeasureImage(i int) Item {
	if i < 0 || i >= len(it.SizeChart.MeasureImages) {
		return it
	}
	next := it.Clone()
	next.SizeChart.MeasureImages = removeSlot(next.SizeChart.MeasureImages, i)
	return next
}

// SetUnit changes the chart unit. Header labels follow through SizeChartHeader.Label.
func (it Item) SetUnit(unit Unit) Item {
	if !unit.Valid() {
		return it
	}
	next := it.Clone()
	next.SizeChart.Unit = unit
	return next
}

// --- Policies ---

func (it Item) Policy(kind PolicyKind) PolicyBlock {
	return it.Policies[kind]
}

func (it Item) SetPolicyField(kind PolicyKind, field, value string) Item {
	if !kind.Valid() {
		return it
	}
	next := it.Clone()
	if next.Policies == nil {
		next.Policies = NewPolicies()
	}
	block := next.Policies[kind]
	switch field {
	case "title":
		block.Title = value
	case "description":
		block.Description = value
	default:
		return it
	}
	next.Policies[kind] = block
	return next
}

// SetPolicyIcon assigns the block's single pending icon, replacing any earlier choice.
func (it Item) SetPolicyIcon(kind PolicyKind, file FileUpload) Item {
	if !kind.Valid() {
		return it
	}
	next := it.Clone()
	if next.Policies == nil {
		next.Policies = NewPolicies()
	}
	block := next.Policies[kind]
	f := file
	block.IconFile = &f
	next.Policies[kind] = block
	return next
}

// ClearPolicyIcon drops both the pending icon and the persisted reference.
func (it Item) ClearPolicyIcon(kind PolicyKind) Item {
	if !kind.Valid() {
		return it
	}
	next := it.Clone()
	if next.Policies == nil {
		next.Policies = NewPolicies()
	}
	block := next.Policies[kind]
	block.IconFile = nil
	block.IconURL = ""
	block.IconKey = ""
	next.Policies[kind] = block
	return next
}
