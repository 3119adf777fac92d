package dialog

import (
	"fmt"
	"strconv"

	"github.com/capitalize-ai/assistant-gateway/internal/model"
)

// numField reads a numeric sub-field of a platform date/time slot value.
func numField(m map[string]any, key string) (int, bool) {
	switch v := m[key].(type) {
	case float64:
		return int(v), true
	case int:
		return v, true
	default:
		return 0, false
	}
}

// TransformDateTimeToString renders an object-shaped date/time slot value to
// a locale-free string: D/M/Y for dates, H:MM for times, "D/M/Y H:MM" when
// both are present. Values without year and hours are not date/time shaped
// and render empty.
func TransformDateTimeToString(value map[string]any) string {
	year, hasYear := numField(value, "year")
	hours, hasHours := numField(value, "hours")
	if (!hasYear || year == 0) && (!hasHours || hours == 0) {
		return ""
	}

	day, _ := numField(value, "day")
	month, _ := numField(value, "month")
	minutes, hasMinutes := numField(value, "minutes")

	// time only
	if !hasYear || year == 0 {
		return fmt.Sprintf("%d:%d", hours, minutes)
	}

	// date only
	if !hasHours || hours == 0 {
		return fmt.Sprintf("%d/%d/%d", day, month, year)
	}

	minuteStr := "00"
	if hasMinutes {
		minuteStr = strconv.Itoa(minutes)
	}
	return fmt.Sprintf("%d/%d/%d %d:%s", day, month, year, hours, minuteStr)
}

// coerceSlotValue converts a raw slot value for variable storage: date/time
// objects become strings, and strings that parse cleanly as numbers become
// numbers.
func coerceSlotValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		return TransformDateTimeToString(v)
	case string:
		if v == "" {
			return v
		}
		if n, err := strconv.ParseFloat(v, 64); err == nil {
			return n
		}
		return v
	default:
		return v
	}
}

// MapSlots resolves declared slot-to-variable mappings against the raw slot
// map of the current request. With overwrite false, mappings whose source
// slot is absent are skipped so existing variables are not clobbered with
// emptiness. Later mappings win for the same target variable.
func MapSlots(mappings []model.SlotMapping, slots map[string]any, overwrite bool) map[string]any {
	variables := make(map[string]any)

	if mappings == nil || slots == nil {
		return variables
	}

	for _, mapping := range mappings {
		if mapping.Slot == "" || mapping.Variable == "" {
			continue
		}

		raw, present := slots[mapping.Slot]
		if isEmptySlotValue(raw) {
			present = false
		}
		if !present && !overwrite {
			continue
		}

		variables[mapping.Variable] = coerceSlotValue(raw)
	}

	return variables
}

func isEmptySlotValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	default:
		return false
	}
}
