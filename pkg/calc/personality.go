package calc

import "github.com/mesh-intelligence/pkmn/pkg/types"

// Gen2IVs holds the four stored gen I/II IVs.
type Gen2IVs struct {
	Attack  int
	Defense int
	Speed   int
	Special int
}

// Gen2Gender derives gender from the attack IV. genderRate is the species'
// female ratio in eighths, or -1 for genderless.
func Gen2Gender(genderRate, attack int) string {
	switch {
	case genderRate < 0:
		return types.GenderGenderless
	case genderRate == 0:
		return types.GenderMale
	case genderRate >= 8:
		return types.GenderFemale
	case attack < 2*genderRate:
		return types.GenderFemale
	default:
		return types.GenderMale
	}
}

// Gen3GenderThreshold returns the personality low-byte threshold below which a
// Pokémon is female.
func Gen3GenderThreshold(genderRate int) uint32 {
	switch genderRate {
	case 0:
		return 0
	case 8:
		return 254
	default:
		return uint32(genderRate*32 - 1)
	}
}

// Gen3Gender derives gender from the personality value.
func Gen3Gender(genderRate int, personality uint32) string {
	switch {
	case genderRate < 0:
		return types.GenderGenderless
	case genderRate == 0:
		return types.GenderMale
	case genderRate >= 8:
		return types.GenderFemale
	case personality&0xFF < Gen3GenderThreshold(genderRate):
		return types.GenderFemale
	default:
		return types.GenderMale
	}
}

// Gen2Shiny reports whether the IVs are shiny.
func Gen2Shiny(ivs Gen2IVs) bool {
	if ivs.Defense != 10 || ivs.Speed != 10 || ivs.Special != 10 {
		return false
	}
	switch ivs.Attack {
	case 2, 3, 6, 7, 10, 11, 14, 15:
		return true
	}
	return false
}

// Gen3Shiny reports whether a personality value is shiny for a 32-bit
// trainer ID (secret ID in the high half).
func Gen3Shiny(personality, trainerID uint32) bool {
	return shinyValue(personality, trainerID) < 8
}

func shinyValue(personality, trainerID uint32) uint32 {
	return (trainerID >> 16) ^ (trainerID & 0xFFFF) ^ (personality >> 16) ^ (personality & 0xFFFF)
}

var unownLetters = func() []string {
	out := make([]string, 0, 28)
	for c := 'A'; c <= 'Z'; c++ {
		out = append(out, string(c))
	}
	return append(out, "!", "?")
}()

// UnownForms returns the Unown forms available in a generation.
func UnownForms(generation int) []string {
	switch {
	case generation < 2:
		return nil
	case generation == 2:
		return append([]string(nil), unownLetters[:26]...)
	default:
		return append([]string(nil), unownLetters...)
	}
}

// Gen2UnownForm derives the Unown letter from gen II IVs.
func Gen2UnownForm(attack, defense, speed, special int) string {
	v := (attack&6)<<5 | (defense&6)<<3 | (speed&6)<<1 | (special&6)>>1
	return unownLetters[v/10]
}

// Gen3UnownForm derives the Unown form from a personality value.
func Gen3UnownForm(personality uint32) string {
	v := (personality>>18)&0xC0 | (personality>>12)&0x30 | (personality>>6)&0x0C | personality&0x03
	return unownLetters[v%28]
}

// Nature derives the nature from a personality value.
func Nature(personality uint32) string {
	return types.Natures[personality%25]
}

// Gen2Constraints describes the derived values an IV set must produce.
// Empty strings leave a value unconstrained.
type Gen2Constraints struct {
	Shiny      *bool
	GenderRate int
	Gender     string
	UnownForm  string
}

func (c Gen2Constraints) satisfied(ivs Gen2IVs) bool {
	if c.Shiny != nil && Gen2Shiny(ivs) != *c.Shiny {
		return false
	}
	if c.Gender != "" && Gen2Gender(c.GenderRate, ivs.Attack) != c.Gender {
		return false
	}
	if c.UnownForm != "" && Gen2UnownForm(ivs.Attack, ivs.Defense, ivs.Speed, ivs.Special) != c.UnownForm {
		return false
	}
	return true
}

// SolveGen2IVs returns the IV set closest to ivs that satisfies c. Closeness
// is the number of changed IVs, then total distance. ok is false when no IV
// set satisfies c.
func SolveGen2IVs(ivs Gen2IVs, c Gen2Constraints) (Gen2IVs, bool) {
	if c.satisfied(ivs) {
		return ivs, true
	}
	best, bestChanged, bestDist := Gen2IVs{}, 5, 0
	for v := 0; v < 1<<16; v++ {
		cand := Gen2IVs{Attack: v >> 12, Defense: (v >> 8) & 15, Speed: (v >> 4) & 15, Special: v & 15}
		if !c.satisfied(cand) {
			continue
		}
		changed, dist := 0, 0
		for _, d := range []int{cand.Attack - ivs.Attack, cand.Defense - ivs.Defense, cand.Speed - ivs.Speed, cand.Special - ivs.Special} {
			if d != 0 {
				changed++
			}
			if d < 0 {
				d = -d
			}
			dist += d
		}
		if changed < bestChanged || (changed == bestChanged && dist < bestDist) {
			best, bestChanged, bestDist = cand, changed, dist
		}
	}
	return best, bestChanged < 5
}

// Gen3Constraints describes the derived values a personality value must
// produce. Empty strings leave a value unconstrained.
type Gen3Constraints struct {
	Shiny      *bool
	TrainerID  uint32
	GenderRate int
	Gender     string
	UnownForm  string
}

func (c Gen3Constraints) satisfied(pid uint32) bool {
	if c.Shiny != nil && Gen3Shiny(pid, c.TrainerID) != *c.Shiny {
		return false
	}
	if c.Gender != "" && Gen3Gender(c.GenderRate, pid) != c.Gender {
		return false
	}
	if c.UnownForm != "" && Gen3UnownForm(pid) != c.UnownForm {
		return false
	}
	return true
}

// SolvePersonality returns a personality value near pid that satisfies c.
// The low half is walked upward from its current value; for each candidate
// the high half is rebuilt to fix shininess and the Unown bits it carries.
// ok is false when no value satisfies c.
func SolvePersonality(pid uint32, c Gen3Constraints) (uint32, bool) {
	if c.satisfied(pid) {
		return pid, true
	}
	origLo, origHi := pid&0xFFFF, pid>>16
	tid := (c.TrainerID >> 16) ^ (c.TrainerID & 0xFFFF)
	for i := uint32(0); i < 1<<16; i++ {
		lo := (origLo + i) & 0xFFFF
		base := origHi
		if c.Shiny != nil && *c.Shiny {
			base = (tid^lo)&^7 | origHi&7
		}
		for _, formBits := range hiFormVariants(base) {
			for _, hi := range []uint32{formBits, formBits ^ 0x8000} {
				cand := hi<<16 | lo
				if c.satisfied(cand) {
					return cand, true
				}
			}
		}
	}
	return pid, false
}

// hiFormVariants returns base first, then every assignment of the two pairs
// of Unown bits carried by the high half.
func hiFormVariants(base uint32) []uint32 {
	out := make([]uint32, 0, 17)
	out = append(out, base)
	for a := uint32(0); a < 4; a++ {
		for b := uint32(0); b < 4; b++ {
			out = append(out, base&^0x0303|a<<8|b)
		}
	}
	return out
}
