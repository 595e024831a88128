// internal/models/record.go
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// ServerRecord is the item as persisted by the catalog backend.
type ServerRecord struct {
	ID                 string           `json:"_id"`
	Name               string           `json:"name"`
	ProductID          FlexString       `json:"productId"`
	ShortDescription   string           `json:"shortDescription"`
	LongDescription    string           `json:"longDescription"`
	Price              FlexString       `json:"price"`
	DiscountedPrice    FlexString       `json:"discountedPrice"`
	CategoryID         FlexString       `json:"categoryId"`
	SubcategoryID      FlexString       `json:"subcategoryId"`
	DefaultColor       string           `json:"defaultColor"`
	IsActive           *bool            `json:"isActive"`
	Variants           []RecordVariant  `json:"variants"`
	Filters            []Filter         `json:"filters"`
	Care               *RecordCare      `json:"care"`
	SizeChart          *RecordSizeChart `json:"sizeChart"`
	Shipping           *RecordPolicy    `json:"shipping"`
	CODPolicy          *RecordPolicy    `json:"codPolicy"`
	ReturnPolicy       *RecordPolicy    `json:"returnPolicy"`
	ExchangePolicy     *RecordPolicy    `json:"exchangePolicy"`
	CancellationPolicy *RecordPolicy    `json:"cancellationPolicy"`
}

func (r *ServerRecord) Policy(kind PolicyKind) *RecordPolicy {
	switch kind {
	case PolicyShipping:
		return r.Shipping
	case PolicyCOD:
		return r.CODPolicy
	case PolicyReturn:
		return r.ReturnPolicy
	case PolicyExchange:
		return r.ExchangePolicy
	case PolicyCancellation:
		return r.CancellationPolicy
	}
	return nil
}

type RecordColor struct {
	Name             string `json:"name"`
	Hex              string `json:"hex"`
	IsMultipleImages bool   `json:"isMultipleImages"`
	TotalImages      int    `json:"totalImages"`
}

type RecordImage struct {
	ID    string `json:"_id,omitempty"`
	URL   string `json:"url"`
	Order int    `json:"order,omitempty"`
}

type RecordSizeTier struct {
	SKU   string `json:"sku"`
	Size  string `json:"size"`
	Stock *int   `json:"stock"`
}

type RecordVariant struct {
	Color  RecordColor      `json:"color"`
	Images []RecordImage    `json:"images"`
	Sizes  []RecordSizeTier `json:"sizes"`
}

type RecordCareInstruction struct {
	Text    string `json:"text"`
	IconURL string `json:"iconUrl"`
	IconKey string `json:"iconKey"`
}

type RecordCare struct {
	Description  string                  `json:"description"`
	Instructions []RecordCareInstruction `json:"instructions"`
}

type RecordHeader struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type RecordRow struct {
	Size         string       `json:"size"`
	Measurements Measurements `json:"measurements"`
}

type RecordSizeChart struct {
	Unit         string         `json:"unit"`
	Headers      []RecordHeader `json:"headers"`
	Rows         []RecordRow    `json:"rows"`
	MeasureImage []RecordImage  `json:"measureImage"`
}

type RecordPolicy struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IconURL     string `json:"iconUrl"`
	IconKey     string `json:"iconKey"`
}

// FlexString accepts a JSON string, number, boolean, null, or a populated reference
// object ({"_id": ...}) and keeps it as text.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
	case '{':
		var ref struct {
			ID string `json:"_id"`
		}
		if err := json.Unmarshal(data, &ref); err != nil {
			return err
		}
		*f = FlexString(ref.ID)
	case 't', 'f':
		b, err := strconv.ParseBool(string(data))
		if err != nil {
			return fmt.Errorf("flex string: %w", err)
		}
		*f = FlexString(strconv.FormatBool(b))
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("flex string: %w", err)
		}
		*f = FlexString(n.String())
	}
	return nil
}

func (f FlexString) String() string {
	return string(f)
}
