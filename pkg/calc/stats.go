package calc

import (
	"fmt"
	"math"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Gen2Stat computes a gen I/II stat from base stat, IV (0-15) and stat
// experience (0-65535).
func Gen2Stat(stat string, base, iv, statExp, level int) int {
	ev := int(math.Ceil(math.Sqrt(float64(statExp)))) / 4
	v := ((base+iv)*2 + ev) * level / 100
	if stat == types.StatHP {
		return v + level + 10
	}
	return v + 5
}

// natureStats lists the stats a nature may raise or lower, in nature order.
var natureStats = []string{
	types.StatAttack, types.StatDefense, types.StatSpeed,
	types.StatSpecialAttack, types.StatSpecialDefense,
}

// NatureModifier returns the percentage applied to stat by nature (90, 100 or 110).
func NatureModifier(nature, stat string) int {
	idx := -1
	for i, n := range types.Natures {
		if n == nature {
			idx = i
			break
		}
	}
	if idx < 0 {
		return 100
	}
	up, down := natureStats[idx/5], natureStats[idx%5]
	switch {
	case up == down:
		return 100
	case stat == up:
		return 110
	case stat == down:
		return 90
	}
	return 100
}

// ModernStat computes a gen III+ stat from base stat, IV (0-31), EV (0-255)
// and nature.
func ModernStat(stat string, base, iv, ev, level int, nature string) int {
	v := (2*base + iv + ev/4) * level / 100
	if stat == types.StatHP {
		return v + level + 10
	}
	return (v + 5) * NatureModifier(nature, stat) / 100
}

// Experience returns the experience threshold of level for a growth rate.
func Experience(growthRate string, level int) (int, error) {
	if level < 0 || level > 100 {
		return 0, fmt.Errorf("%w: level %d", types.ErrOutOfRange, level)
	}
	if level <= 1 {
		return 0, nil
	}
	n := level
	cube := n * n * n
	var exp int
	switch growthRate {
	case types.GrowthFast:
		exp = 4 * cube / 5
	case types.GrowthMediumFast:
		exp = cube
	case types.GrowthMediumSlow:
		exp = 6*cube/5 - 15*n*n + 100*n - 140
	case types.GrowthSlow:
		exp = 5 * cube / 4
	case types.GrowthErratic:
		switch {
		case n < 50:
			exp = cube * (100 - n) / 50
		case n < 68:
			exp = cube * (150 - n) / 100
		case n < 98:
			exp = cube * ((1911 - 10*n) / 3) / 500
		default:
			exp = cube * (160 - n) / 100
		}
	case types.GrowthFluctuating:
		switch {
		case n < 15:
			exp = cube * ((n+1)/3 + 24) / 50
		case n < 36:
			exp = cube * (n + 14) / 50
		default:
			exp = cube * (n/2 + 32) / 50
		}
	default:
		return 0, fmt.Errorf("%w: growth rate %q", types.ErrInvalidValue, growthRate)
	}
	return max(exp, 0), nil
}

// GrowthRates lists every growth rate.
var GrowthRates = []string{
	types.GrowthFast, types.GrowthMediumFast, types.GrowthMediumSlow,
	types.GrowthSlow, types.GrowthErratic, types.GrowthFluctuating,
}

// LevelForExperience returns the highest level whose threshold in curve does
// not exceed exp. curve is indexed by level as returned by Database.LevelCurve.
func LevelForExperience(curve []int, exp int) int {
	level := 1
	for l := 2; l < len(curve); l++ {
		if curve[l] > exp {
			break
		}
		level = l
	}
	return level
}
