// Package calc implements the pure calculations behind derived Pokémon fields:
// hidden power, gender, shininess, Unown forms, natures, stats and
// experience curves. Each derivation that the entity model must keep in sync
// also has an encoder here, so that both directions live side by side.
package calc

import (
	"fmt"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// HiddenPower is the type and base power of the move Hidden Power.
type HiddenPower struct {
	Type  string `json:"type"`
	Power int    `json:"power"`
}

var hiddenPowerTypes = []string{
	"Fighting", "Flying", "Poison", "Ground",
	"Rock", "Bug", "Ghost", "Steel",
	"Fire", "Water", "Grass", "Electric",
	"Psychic", "Ice", "Dragon", "Dark",
}

// Gen2HiddenPower derives hidden power from gen I/II IVs (0-15).
func Gen2HiddenPower(attack, defense, speed, special int) (HiddenPower, error) {
	if err := checkIVs(15, attack, defense, speed, special); err != nil {
		return HiddenPower{}, err
	}
	msb := func(iv int) int { return iv >> 3 }
	sum := msb(special) + 2*msb(speed) + 4*msb(defense) + 8*msb(attack)
	return HiddenPower{
		Type:  hiddenPowerTypes[4*(attack%4)+defense%4],
		Power: (5*sum+special%4)/2 + 30,
	}, nil
}

// ModernHiddenPower derives hidden power from gen III+ IVs (0-31).
func ModernHiddenPower(hp, attack, defense, speed, spAttack, spDefense int) (HiddenPower, error) {
	if err := checkIVs(31, hp, attack, defense, speed, spAttack, spDefense); err != nil {
		return HiddenPower{}, err
	}
	ivs := []int{hp, attack, defense, speed, spAttack, spDefense}
	var typeSum, powerSum int
	for i, iv := range ivs {
		typeSum |= (iv & 1) << i
		powerSum |= ((iv >> 1) & 1) << i
	}
	return HiddenPower{
		Type:  hiddenPowerTypes[typeSum*15/63],
		Power: powerSum*40/63 + 30,
	}, nil
}

func checkIVs(max int, ivs ...int) error {
	for _, iv := range ivs {
		if iv < 0 || iv > max {
			return fmt.Errorf("%w: IV %d not in [0, %d]", types.ErrOutOfRange, iv, max)
		}
	}
	return nil
}

// Gen2HPIV returns the HP IV implied by the other four gen I/II IVs.
func Gen2HPIV(attack, defense, speed, special int) int {
	return (attack&1)<<3 | (defense&1)<<2 | (speed&1)<<1 | special&1
}
