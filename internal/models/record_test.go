// internal/models/record_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexStringAcceptsBackendShapes(t *testing.T) {
	var out struct {
		A FlexString `json:"a"`
		B FlexString `json:"b"`
		C FlexString `json:"c"`
		D FlexString `json:"d"`
		E FlexString `json:"e"`
	}
	err := json.Unmarshal([]byte(`{"a":"x1","b":19.90,"c":{"_id":"cat9","name":"Tops"},"d":null,"e":false}`), &out)
	require.NoError(t, err)

	assert.Equal(t, "x1", out.A.String())
	assert.Equal(t, "19.90", out.B.String())
	assert.Equal(t, "cat9", out.C.String())
	assert.Equal(t, "", out.D.String())
	assert.Equal(t, "false", out.E.String())
}

func TestServerRecordDecode(t *testing.T) {
	body := `{
		"_id": "item1",
		"name": "Tee",
		"price": 499,
		"categoryId": {"_id": "c1"},
		"isActive": false,
		"variants": [{
			"color": {"name": "Black", "hex": "#000000", "isMultipleImages": true, "totalImages": 2},
			"images": [{"_id": "i1", "url": "https://cdn/1.png", "order": 1}],
			"sizes": [{"sku": "B-S", "size": "S", "stock": 5}]
		}],
		"sizeChart": {"unit": "cm", "headers": [{"key": "chest", "label": "Chest (cm)"}],
			"rows": [{"size": "S", "measurements": {"chest": "90"}}],
			"measureImage": [{"url": "https://cdn/m.png"}]},
		"codPolicy": {"title": "COD", "iconUrl": "https://cdn/cod.png"}
	}`

	var record ServerRecord
	require.NoError(t, json.Unmarshal([]byte(body), &record))

	assert.Equal(t, "item1", record.ID)
	assert.Equal(t, "499", record.Price.String())
	assert.Equal(t, "c1", record.CategoryID.String())
	require.NotNil(t, record.IsActive)
	assert.False(t, *record.IsActive)
	require.Len(t, record.Variants, 1)
	assert.Equal(t, 5, *record.Variants[0].Sizes[0].Stock)
	assert.Equal(t, "cm", record.SizeChart.Unit)
	assert.Equal(t, "COD", record.Policy(PolicyCOD).Title)
	assert.Nil(t, record.Policy(PolicyShipping))
	assert.Nil(t, record.Policy("warranty"))
}
