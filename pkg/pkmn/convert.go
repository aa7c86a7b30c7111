package pkmn

import (
	"fmt"

	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Convertible reports whether a Pokémon of game from can be converted to
// game to: within a generation (handheld and GameCube alike), between gen I
// and gen II, and forward from gen III to gen IV.
func Convertible(from, to types.Game) bool {
	a, b := from.Generation(), to.Generation()
	switch {
	case a == 0 || b == 0:
		return false
	case a == b:
		return true
	case a <= 2 && b <= 2:
		return true
	}
	return a == 3 && b == 4
}

// ToGame returns a copy of p as it would exist in game. Fields both games
// store are preserved; moves, held items, balls and locations the target
// lacks fall back to the target's defaults. The species and form must
// exist in the target.
func (p *Pokemon) ToGame(game types.Game) (*Pokemon, error) {
	if !game.Valid() {
		return nil, fmt.Errorf("%w: game %v", types.ErrInvalidValue, game)
	}
	if p.IsNone() {
		return &Pokemon{db: p.db, game: game}, nil
	}
	if game == p.game {
		return p.Clone(), nil
	}
	if !Convertible(p.game, game) {
		return nil, fmt.Errorf("%w: %s to %s", types.ErrIncompatibleGame, p.game, game)
	}
	entry, err := p.db.Species(p.species.Name, game)
	if err != nil {
		return nil, invalid(err, "%s does not exist in %s", p.species.Name, game)
	}
	form := p.Form()
	if !entry.HasForm(form) {
		return nil, fmt.Errorf("%w: %s form %s does not exist in %s", types.ErrInvalidValue, p.species.Name, form, game)
	}

	q := newPokemon(p.db, game, entry)
	if !q.isUnown() {
		q.form = p.form
	}
	if checkText("nickname", p.nickname, MaxNameChars, game) == nil {
		q.nickname = p.nickname
	}
	if checkText("OT name", p.otName, maxOTChars(game), game) == nil {
		q.otName = p.otName
	}
	q.otID = p.otID
	if game.Generation() <= 2 {
		q.otID &= 0xFFFF
	}
	q.condition = p.condition
	q.catchRate = p.catchRate

	if err := q.loadExperience(p.experience); err != nil {
		return nil, err
	}
	for i, m := range p.moves {
		if m.Move == types.MoveNone {
			continue
		}
		if _, err := p.db.Move(m.Move, game); err != nil {
			continue
		}
		q.moves[i] = m
		q.ppUps[i] = p.ppUps[i]
		if limit, err := q.MaxPP(i); err == nil {
			q.moves[i].PP = min(m.PP, limit)
		}
	}

	// IVs and EVs share a scale within gen I/II and within gen III/IV.
	for s, v := range p.ivs {
		q.ivs[s] = v
	}
	for _, s := range evNames(game.Generation()) {
		if v, ok := p.evs[s]; ok {
			q.evs[s] = v
		}
	}

	if p.Generation() >= 2 && game.Generation() >= 2 {
		convertCaughtData(q, p)
	}
	if p.Generation() >= 3 {
		convertGen3Data(q, p)
	}
	q.currentHP = min(p.currentHP, q.maxHP())
	return q, nil
}

func convertCaughtData(q, p *Pokemon) {
	if p.heldItem != types.ItemNone {
		if item, err := q.db.Item(p.heldItem, q.game); err == nil && item.Holdable {
			q.heldItem = item.Name
		}
	}
	if _, err := q.db.Location(p.locationMet, q.game); err == nil {
		q.locationMet = p.locationMet
	}
	q.friendship = p.friendship
	q.levelMet = min(p.levelMet, q.maxLevelMet())
	q.otFemale = p.otFemale
	q.pokerus = p.pokerus
	q.egg = p.egg
	q.timeOfDay = p.timeOfDay
}

func convertGen3Data(q, p *Pokemon) {
	q.personality = p.personality
	q.originalGame = p.originalGame
	if q.species.HasAbility(p.ability) {
		q.ability = p.ability
	}
	if item, err := q.db.Item(p.ball, q.game); err == nil && item.Category == ballCategory {
		q.ball = item.Name
	}
	for _, m := range types.MarkingNames(q.Generation()) {
		q.markings[m] = p.markings[m]
	}
	for _, r := range types.RibbonNames(q.Generation()) {
		q.ribbons[r] = p.ribbons[r]
	}
	for _, c := range types.ContestStatNames(q.Generation()) {
		q.contest[c] = p.contest[c]
	}
}
