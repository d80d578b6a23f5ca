package colour

import "fmt"

// slotIndices maps each palette slot to an index into the luma-sorted set.
// The bright half repeats the normal half.
var slotIndices = [PaletteSize]int{0, 13, 15, 16, 17, 21, 20, 19, 9, 13, 15, 16, 17, 21, 20, 19}

const (
	slotBrightness = -5
	slotSaturation = 80

	foregroundSource     = 20
	foregroundBrightness = 45
	foregroundSaturation = 65
	foregroundGrayOffset = 2
)

// Grading holds the user's brightness and saturation deltas. Nil means zero.
type Grading struct {
	Brightness *int8
	Saturation *int8
}

func (g Grading) deltas() (int, int) {
	var b, s int
	if g.Brightness != nil {
		b = int(*g.Brightness)
	}
	if g.Saturation != nil {
		s = int(*g.Saturation)
	}
	return b, s
}

// MapSlots builds the final palette from a luma-sorted set. Slots 7 and 15
// are both overwritten with the same gray foreground.
func MapSlots(sorted ColourSet, grading Grading, alpha uint8) (Palette, error) {
	if len(sorted) < MinSetSize {
		return Palette{}, fmt.Errorf("%w: slot mapping needs %d colours, got %d",
			ErrInvariantViolation, MinSetSize, len(sorted))
	}

	b, s := grading.deltas()

	var p Palette
	for slot, idx := range slotIndices {
		p.Colours[slot] = Adjust(sorted[idx], b+slotBrightness, s+slotSaturation)
	}

	fg := ToGray(Adjust(sorted[foregroundSource], b+foregroundBrightness, s+foregroundSaturation), foregroundGrayOffset)
	p.Colours[7] = fg
	p.Colours[15] = fg
	p.Alpha = alpha

	return p, nil
}
