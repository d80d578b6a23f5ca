package colour

import "fmt"

// MinSetSize is the number of colours the slot mapper addresses; sets are
// augmented until they reach it.
const MinSetSize = 22

// augmentSaturation is the saturation applied to every synthesized colour.
const augmentSaturation = 50

// ColourSet is the ordered working set of colours between extraction and
// slot mapping.
type ColourSet []RGB

// Dedup returns the colours with exact duplicates removed, keeping the first
// occurrence of each.
func Dedup(colours []RGB) []RGB {
	seen := make(map[RGB]struct{}, len(colours))
	result := make([]RGB, 0, len(colours))
	for _, c := range colours {
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		result = append(result, c)
	}
	return result
}

// Augment grows the set to at least MinSetSize colours by appending
// progressively brightened, half-saturated variants of existing members.
// The set must not be empty.
func Augment(set ColourSet) (ColourSet, error) {
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: no colours to augment from", ErrQuantization)
	}
	for i := 0; len(set) < MinSetSize; i++ {
		base := set[i%len(set)]
		set = append(set, Adjust(base, 10*(i+1), augmentSaturation))
	}
	return set, nil
}

// BuildColourSet merges backend output into a deduplicated set of at least
// MinSetSize colours sorted by ascending luma.
func BuildColourSet(colours []RGB) (ColourSet, error) {
	set, err := Augment(ColourSet(Dedup(colours)))
	if err != nil {
		return nil, err
	}
	SortByLuma(set)
	return set, nil
}
