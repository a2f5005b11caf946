package registry

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/llamale/server/internal/assistant/model"
	errx "github.com/llamale/server/internal/core/error"
)

// Validate applies the registry-declared constraint for one slot value and
// returns the admitted slot. Rejected values are treated as if the slot had
// never been extracted: the caller keeps the goal open and re-asks instead
// of failing the turn.
func Validate(intent model.IntentType, slotName string, raw model.SlotValue) (model.Slot, error) {
	def, ok := Lookup(intent)
	if !ok {
		return model.Slot{}, errx.NewKind(errx.KindSlotInvalid, fmt.Sprintf("unknown intent %q", intent))
	}
	sd, ok := def.Slot(slotName)
	if !ok {
		return model.Slot{}, errx.NewKind(errx.KindSlotInvalid, fmt.Sprintf("intent %q has no slot %q", intent, slotName))
	}

	value := strings.TrimSpace(raw.Value)
	if value == "" || strings.EqualFold(value, "null") {
		return model.Slot{}, errx.NewKind(errx.KindSlotInvalid, fmt.Sprintf("slot %q is empty", slotName))
	}

	switch sd.Kind {
	case KindLevel:
		level := strings.ToLower(value)
		for _, l := range sd.Levels {
			if level == l {
				return model.Slot{Name: slotName, Value: level, Confidence: raw.Confidence}, nil
			}
		}
		return model.Slot{}, errx.NewKind(errx.KindSlotInvalid,
			fmt.Sprintf("slot %q value %q is not one of %v", slotName, value, sd.Levels))

	case KindNumeric:
		n, err := strconv.ParseFloat(value, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return model.Slot{}, errx.NewKind(errx.KindSlotInvalid,
				fmt.Sprintf("slot %q value %q is not a number", slotName, value))
		}
		if n < sd.Min || n > sd.Max {
			return model.Slot{}, errx.NewKind(errx.KindSlotInvalid,
				fmt.Sprintf("slot %q value %v out of range [%v, %v]", slotName, n, sd.Min, sd.Max))
		}
		return model.Slot{Name: slotName, Value: strconv.FormatFloat(n, 'f', -1, 64), Confidence: raw.Confidence}, nil

	default:
		return model.Slot{Name: slotName, Value: value, Confidence: raw.Confidence}, nil
	}
}
