// internal/models/measurements_test.go
package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (m Measurements) lookup(key string) (string, bool) {
	for _, entry := range m {
		if entry.Key == key {
			return entry.Value, true
		}
	}
	return "", false
}

func (m Measurements) keys() []string {
	keys := make([]string, len(m))
	for i, entry := range m {
		keys[i] = entry.Key
	}
	return keys
}

func TestMeasurementsMarshalKeepsOrder(t *testing.T) {
	m := Measurements{}.Set("waist", "30").Set("chest", "38").Set("length", "")

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `{"waist":"30","chest":"38","length":""}`, string(data))

	empty, err := json.Marshal(Measurements{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestMeasurementsSetIsCopyOnWrite(t *testing.T) {
	base := Measurements{}.Set("chest", "38")
	next := base.Set("chest", "40")

	v, _ := base.lookup("chest")
	assert.Equal(t, "38", v)
	v, _ = next.lookup("chest")
	assert.Equal(t, "40", v)
	assert.Len(t, next, 1)
}

func TestMeasurementsUnmarshal(t *testing.T) {
	var m Measurements
	err := json.Unmarshal([]byte(`{"chest": 38.5, "waist": "30", "stretch": true, "hip": null}`), &m)
	require.NoError(t, err)

	assert.Equal(t, []string{"chest", "waist", "stretch", "hip"}, m.keys())
	v, _ := m.lookup("chest")
	assert.Equal(t, "38.5", v)
	v, _ = m.lookup("stretch")
	assert.Equal(t, "true", v)
	v, ok := m.lookup("hip")
	assert.True(t, ok)
	assert.Equal(t, "", v)

	_, ok = m.lookup("missing")
	assert.False(t, ok)
}

func TestMeasurementsUnmarshalRejectsNonObject(t *testing.T) {
	var m Measurements
	assert.Error(t, json.Unmarshal([]byte(`["chest"]`), &m))
	assert.Error(t, json.Unmarshal([]byte(`{"chest": {"v": 1}}`), &m))

	require.NoError(t, json.Unmarshal([]byte(`null`), &m))
	assert.Nil(t, m)
}
