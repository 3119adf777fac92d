package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

func TestTransformDateTimeToString(t *testing.T) {
	tests := []struct {
		name     string
		value    map[string]any
		expected string
	}{
		{
			name:     "time only",
			value:    map[string]any{"hours": float64(14), "minutes": float64(5)},
			expected: "14:5",
		},
		{
			name:     "date only",
			value:    map[string]any{"day": float64(9), "month": float64(3), "year": float64(2021)},
			expected: "9/3/2021",
		},
		{
			name: "date and time",
			value: map[string]any{
				"day": float64(9), "month": float64(3), "year": float64(2021),
				"hours": float64(18), "minutes": float64(30),
			},
			expected: "9/3/2021 18:30",
		},
		{
			name: "minutes default to 00",
			value: map[string]any{
				"day": float64(1), "month": float64(1), "year": float64(2022),
				"hours": float64(9),
			},
			expected: "1/1/2022 9:00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TransformDateTimeToString(tt.value))
		})
	}
}

func TestMapSlots(t *testing.T) {
	mappings := []model.SlotMapping{
		{Slot: "city", Variable: "destination"},
		{Slot: "amount", Variable: "count"},
	}

	t.Run("maps present slots", func(t *testing.T) {
		out := MapSlots(mappings, map[string]any{"city": "paris", "amount": "3"}, false)
		assert.Equal(t, "paris", out["destination"])
		assert.Equal(t, float64(3), out["count"])
	})

	t.Run("skips absent and empty slots without overwrite", func(t *testing.T) {
		out := MapSlots(mappings, map[string]any{"city": ""}, false)
		assert.NotContains(t, out, "destination")
		assert.NotContains(t, out, "count")
	})

	t.Run("overwrite keeps empty values", func(t *testing.T) {
		out := MapSlots(mappings, map[string]any{"city": ""}, true)
		assert.Contains(t, out, "destination")
	})

	t.Run("later mappings win", func(t *testing.T) {
		dup := []model.SlotMapping{
			{Slot: "city", Variable: "destination"},
			{Slot: "fallback", Variable: "destination"},
		}
		out := MapSlots(dup, map[string]any{"city": "paris", "fallback": "london"}, false)
		assert.Equal(t, "london", out["destination"])
	})

	t.Run("datetime slot coerced to string", func(t *testing.T) {
		out := MapSlots([]model.SlotMapping{{Slot: "when", Variable: "when"}}, map[string]any{
			"when": map[string]any{"day": float64(5), "month": float64(6), "year": float64(2021)},
		}, false)
		assert.Equal(t, "5/6/2021", out["when"])
	})
}
