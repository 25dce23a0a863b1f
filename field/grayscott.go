package field

import "fmt"

// DummyReactionScale ties the cosmetic dummy channel to the prey reaction.
const DummyReactionScale = 0.7

// Roles maps the three species roles onto channel slots.
type Roles struct {
	Dummy    int `yaml:"dummy"`
	Predator int `yaml:"predator"`
	Prey     int `yaml:"prey"`
}

// DefaultRoles puts dummy, predator and prey in slots 0, 1 and 2.
func DefaultRoles() Roles {
	return Roles{Dummy: 0, Predator: 1, Prey: 2}
}

// Validate checks that the roles are a permutation of the channel slots.
func (r Roles) Validate() error {
	var seen [NumChannels]bool
	for _, ch := range []int{r.Dummy, r.Predator, r.Prey} {
		if ch < 0 || ch >= NumChannels {
			return fmt.Errorf("%w: channel index %d out of range", ErrInvalidParams, ch)
		}
		if seen[ch] {
			return fmt.Errorf("%w: channel index %d assigned twice", ErrInvalidParams, ch)
		}
		seen[ch] = true
	}
	return nil
}

// GrayScott writes the Gray-Scott reaction term of x into dst.
//
//	prey'     = -a*b^2 + f*(1-a)
//	predator' =  a*b^2 - (k+f)*b
//	dummy'    =  0.7 * prey'
//
// where a is prey and b is predator. Nothing is clamped.
func GrayScott(dst, x []float64, f, k float64, roles Roles) error {
	if len(x)%NumChannels != 0 || len(dst) != len(x) {
		return fmt.Errorf("%w: reaction needs matching multiples of %d values, got x=%d dst=%d",
			ErrShape, NumChannels, len(x), len(dst))
	}

	for s := 0; s < len(x); s += NumChannels {
		a := x[s+roles.Prey]
		b := x[s+roles.Predator]
		abb := a * b * b

		prey := -abb + f*(1-a)
		dst[s+roles.Prey] = prey
		dst[s+roles.Predator] = abb - (k+f)*b
		dst[s+roles.Dummy] = DummyReactionScale * prey
	}
	return nil
}
