package pkmn

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/pkmn/pkg/calc"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Values derived from the IVs (gen I/II) or the personality value (gen III+).
// Every setter here rewrites the stored bits so that the derivation yields
// the requested value, keeping the other derived values where it can.

var gen2StoredIVs = []string{types.StatAttack, types.StatDefense, types.StatSpeed, types.StatSpecial}

func (p *Pokemon) gen2IVs() calc.Gen2IVs {
	return calc.Gen2IVs{
		Attack:  p.ivs[types.StatAttack],
		Defense: p.ivs[types.StatDefense],
		Speed:   p.ivs[types.StatSpeed],
		Special: p.ivs[types.StatSpecial],
	}
}

func (p *Pokemon) setGen2IVs(v calc.Gen2IVs) {
	p.ivs[types.StatAttack] = v.Attack
	p.ivs[types.StatDefense] = v.Defense
	p.ivs[types.StatSpeed] = v.Speed
	p.ivs[types.StatSpecial] = v.Special
	p.clampHP()
}

func (p *Pokemon) isUnown() bool {
	return p.species.Name == "Unown" && p.Generation() >= 2
}

// Form returns the form name. Unown's letter is derived.
func (p *Pokemon) Form() string {
	switch {
	case p.IsNone():
		return ""
	case p.isUnown() && p.Generation() == 2:
		v := p.gen2IVs()
		return calc.Gen2UnownForm(v.Attack, v.Defense, v.Speed, v.Special)
	case p.isUnown():
		return calc.Gen3UnownForm(p.personality)
	}
	return p.form
}

// SetForm changes the form. For Unown the IVs or personality value are
// rewritten to encode the letter, keeping shininess when possible.
func (p *Pokemon) SetForm(form string) error {
	if err := p.require(1, "form"); err != nil {
		return err
	}
	if !p.species.HasForm(form) {
		return fmt.Errorf("%w: %s has no form %q in %s", types.ErrInvalidValue, p.species.Name, form, p.game)
	}
	if !p.isUnown() {
		p.form = form
		return nil
	}
	shiny := p.IsShiny()
	if p.Generation() == 2 {
		for _, c := range []calc.Gen2Constraints{
			{Shiny: &shiny, GenderRate: p.species.GenderRate, UnownForm: form},
			{GenderRate: p.species.GenderRate, UnownForm: form},
		} {
			if v, ok := calc.SolveGen2IVs(p.gen2IVs(), c); ok {
				p.setGen2IVs(v)
				return nil
			}
		}
	} else {
		if pid, ok := calc.SolvePersonality(p.personality, calc.Gen3Constraints{
			Shiny: &shiny, TrainerID: p.otID, GenderRate: p.species.GenderRate, UnownForm: form,
		}); ok {
			p.personality = pid
			p.clampHP()
			return nil
		}
	}
	return fmt.Errorf("%w: no IVs encode Unown %s", types.ErrInvalidValue, form)
}

// Gender returns "Male", "Female" or "Genderless", or "" in gen I.
func (p *Pokemon) Gender() string {
	switch {
	case p.IsNone() || p.Generation() < 2:
		return ""
	case p.Generation() == 2:
		return calc.Gen2Gender(p.species.GenderRate, p.ivs[types.StatAttack])
	}
	return calc.Gen3Gender(p.species.GenderRate, p.personality)
}

// SetGender rewrites the IVs or personality value to produce gender.
// Shininess is kept unless no IV set allows both.
func (p *Pokemon) SetGender(gender string) error {
	if err := p.require(2, "gender"); err != nil {
		return err
	}
	if !slices.Contains([]string{types.GenderMale, types.GenderFemale, types.GenderGenderless}, gender) {
		return fmt.Errorf("%w: gender %q", types.ErrInvalidValue, gender)
	}
	if gender == p.Gender() {
		return nil
	}
	rate := p.species.GenderRate
	if rate < 0 || rate == 0 || rate >= 8 || gender == types.GenderGenderless {
		return fmt.Errorf("%w: %s cannot be %s", types.ErrInvalidValue, p.species.Name, gender)
	}
	shiny := p.IsShiny()
	if p.Generation() == 2 {
		for _, c := range []calc.Gen2Constraints{
			{Shiny: &shiny, GenderRate: rate, Gender: gender},
			{GenderRate: rate, Gender: gender},
		} {
			if v, ok := calc.SolveGen2IVs(p.gen2IVs(), c); ok {
				p.setGen2IVs(v)
				return nil
			}
		}
		return fmt.Errorf("%w: no IVs make %s %s", types.ErrInvalidValue, p.species.Name, gender)
	}
	pid, ok := calc.SolvePersonality(p.personality, calc.Gen3Constraints{
		Shiny: &shiny, TrainerID: p.otID, GenderRate: rate, Gender: gender,
	})
	if !ok {
		return fmt.Errorf("%w: no personality makes %s %s", types.ErrInvalidValue, p.species.Name, gender)
	}
	p.personality = pid
	p.clampHP()
	return nil
}

// IsShiny reports shininess, always false in gen I.
func (p *Pokemon) IsShiny() bool {
	switch {
	case p.IsNone() || p.Generation() < 2:
		return false
	case p.Generation() == 2:
		return calc.Gen2Shiny(p.gen2IVs())
	}
	return calc.Gen3Shiny(p.personality, p.otID)
}

// SetShiny rewrites the IVs or personality value. Gender and the Unown
// form are kept when a solution allows it; gen II drops them otherwise.
func (p *Pokemon) SetShiny(shiny bool) error {
	if err := p.require(2, "shininess"); err != nil {
		return err
	}
	if shiny == p.IsShiny() {
		return nil
	}
	rate := p.species.GenderRate
	gender, form := p.Gender(), ""
	if p.isUnown() {
		form = p.Form()
	}
	if p.Generation() == 2 {
		for _, c := range []calc.Gen2Constraints{
			{Shiny: &shiny, GenderRate: rate, Gender: gender, UnownForm: form},
			{Shiny: &shiny, GenderRate: rate, Gender: gender},
			{Shiny: &shiny},
		} {
			if v, ok := calc.SolveGen2IVs(p.gen2IVs(), c); ok {
				p.setGen2IVs(v)
				return nil
			}
		}
		return fmt.Errorf("%w: no IVs make %s shiny", types.ErrInvalidValue, p.species.Name)
	}
	pid, ok := calc.SolvePersonality(p.personality, calc.Gen3Constraints{
		Shiny: &shiny, TrainerID: p.otID, GenderRate: rate, Gender: gender, UnownForm: form,
	})
	if !ok {
		return fmt.Errorf("%w: no personality makes %s shiny", types.ErrInvalidValue, p.species.Name)
	}
	p.personality = pid
	p.clampHP()
	return nil
}

// IVs returns the individual values keyed by stat. Gen I/II report HP,
// Attack, Defense, Speed and Special with the HP IV derived.
func (p *Pokemon) IVs() map[string]int {
	out := map[string]int{}
	if p.IsNone() {
		return out
	}
	if p.Generation() <= 2 {
		v := p.gen2IVs()
		out[types.StatHP] = calc.Gen2HPIV(v.Attack, v.Defense, v.Speed, v.Special)
		for _, s := range gen2StoredIVs {
			out[s] = p.ivs[s]
		}
		return out
	}
	for _, s := range types.StatNames(p.Generation()) {
		out[s] = p.ivs[s]
	}
	return out
}

func maxIV(gen int) int {
	if gen <= 2 {
		return 15
	}
	return 31
}

// SetIV sets one IV. A gen I/II HP IV is written into the low bits of the
// other four.
func (p *Pokemon) SetIV(stat string, v int) error {
	if err := p.require(1, "IV"); err != nil {
		return err
	}
	gen := p.Generation()
	if !slices.Contains(types.IVNames(gen), stat) {
		return fmt.Errorf("%w: IV %q in %s", types.ErrInvalidValue, stat, p.game)
	}
	if err := checkRange(stat+" IV", v, 0, maxIV(gen)); err != nil {
		return err
	}
	if gen > 2 {
		p.ivs[stat] = v
		p.clampHP()
		return nil
	}
	next := p.gen2IVs()
	switch stat {
	case types.StatHP:
		next.Attack = next.Attack&^1 | v>>3&1
		next.Defense = next.Defense&^1 | v>>2&1
		next.Speed = next.Speed&^1 | v>>1&1
		next.Special = next.Special&^1 | v&1
	case types.StatAttack:
		next.Attack = v
	case types.StatDefense:
		next.Defense = v
	case types.StatSpeed:
		next.Speed = v
	case types.StatSpecial:
		next.Special = v
	}
	if p.isUnown() && !p.species.HasForm(calc.Gen2UnownForm(next.Attack, next.Defense, next.Speed, next.Special)) {
		return fmt.Errorf("%w: IVs select a form %s lacks", types.ErrInvalidValue, p.game)
	}
	p.setGen2IVs(next)
	return nil
}

// EVs returns effort values (stat experience in gen I/II) keyed by stat.
func (p *Pokemon) EVs() map[string]int {
	out := map[string]int{}
	if p.IsNone() {
		return out
	}
	for _, s := range evNames(p.Generation()) {
		out[s] = p.evs[s]
	}
	return out
}

func maxEV(gen int) int {
	if gen <= 2 {
		return 0xFFFF
	}
	return 255
}

func (p *Pokemon) SetEV(stat string, v int) error {
	if err := p.require(1, "EV"); err != nil {
		return err
	}
	if !slices.Contains(evNames(p.Generation()), stat) {
		return fmt.Errorf("%w: EV %q in %s", types.ErrInvalidValue, stat, p.game)
	}
	if err := checkRange(stat+" EV", v, 0, maxEV(p.Generation())); err != nil {
		return err
	}
	p.evs[stat] = v
	p.clampHP()
	return nil
}

// Stats returns the computed stats for the current level.
func (p *Pokemon) Stats() map[string]int {
	out := map[string]int{}
	if p.IsNone() {
		return out
	}
	gen := p.Generation()
	if gen <= 2 {
		ivs := p.IVs()
		for _, s := range types.StatNames(gen) {
			key := s
			if s == types.StatSpecialAttack || s == types.StatSpecialDefense {
				key = types.StatSpecial
			}
			out[s] = calc.Gen2Stat(s, p.species.BaseStats[s], ivs[key], p.evs[key], p.level)
		}
		return out
	}
	nature := calc.Nature(p.personality)
	for _, s := range types.StatNames(gen) {
		out[s] = calc.ModernStat(s, p.species.BaseStats[s], p.ivs[s], p.evs[s], p.level, nature)
	}
	return out
}

// HiddenPower returns the type and power of the move Hidden Power. Gen I
// reports the gen II derivation of its IVs.
func (p *Pokemon) HiddenPower() calc.HiddenPower {
	if p.IsNone() {
		return calc.HiddenPower{}
	}
	var hp calc.HiddenPower
	if p.Generation() <= 2 {
		v := p.gen2IVs()
		hp, _ = calc.Gen2HiddenPower(v.Attack, v.Defense, v.Speed, v.Special)
	} else {
		iv := p.ivs
		hp, _ = calc.ModernHiddenPower(iv[types.StatHP], iv[types.StatAttack], iv[types.StatDefense],
			iv[types.StatSpeed], iv[types.StatSpecialAttack], iv[types.StatSpecialDefense])
	}
	return hp
}
