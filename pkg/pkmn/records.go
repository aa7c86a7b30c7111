package pkmn

import (
	"fmt"
	"slices"

	"github.com/mesh-intelligence/pkmn/internal/binfmt"
	"github.com/mesh-intelligence/pkmn/pkg/calc"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// Mapping between the stored Pokémon records and the entity model. Stored
// indices are resolved through the Reference Database of the record's game;
// an index the database does not know makes the record invalid.

// gen1TypeIDs are the type bytes of gen I records.
var gen1TypeIDs = map[string]byte{
	"Normal": 0x00, "Fighting": 0x01, "Flying": 0x02, "Poison": 0x03,
	"Ground": 0x04, "Rock": 0x05, "Bug": 0x07, "Ghost": 0x08,
	"Fire": 0x14, "Water": 0x15, "Grass": 0x16, "Electric": 0x17,
	"Psychic": 0x18, "Ice": 0x19, "Dragon": 0x1A,
}

// Origin game codes of gen III records.
var originCodes = map[types.Game]byte{
	types.GameSapphire:  1,
	types.GameRuby:      2,
	types.GameEmerald:   3,
	types.GameFireRed:   4,
	types.GameLeafGreen: 5,
	types.GameColosseum: 15,
	types.GameXD:        15,
}

func originGame(code byte, game types.Game) (types.Game, error) {
	if code == originCodes[types.GameColosseum] {
		if game.IsGameCube() {
			return game, nil
		}
		return types.GameColosseum, nil
	}
	for g, c := range originCodes {
		if c == code {
			return g, nil
		}
	}
	return types.GameNone, fmt.Errorf("%w: origin game code %d", types.ErrInvalidValue, code)
}

func decodeSpecies(db types.Database, index int, game types.Game) (types.SpeciesEntry, error) {
	entry, err := db.SpeciesByIndex(index, game)
	if err != nil {
		return entry, invalid(err, "species index %d in %s", index, game)
	}
	return entry, nil
}

func (p *Pokemon) loadMoves(ids, pp, ups [NumMoves]int) error {
	for i, id := range ids {
		if id == 0 {
			continue
		}
		m, err := p.db.MoveByID(id, p.game)
		if err != nil {
			return invalid(err, "move %d in %s", id, p.game)
		}
		p.moves[i] = MoveSlot{Move: m.Name, PP: pp[i]}
		p.ppUps[i] = ups[i]
	}
	return nil
}

func (p *Pokemon) moveIDs() ([NumMoves]int, error) {
	var ids [NumMoves]int
	for i, m := range p.moves {
		if m.Move == types.MoveNone {
			continue
		}
		e, err := p.db.Move(m.Move, p.game)
		if err != nil {
			return ids, err
		}
		ids[i] = e.ID
	}
	return ids, nil
}

func (p *Pokemon) loadExperience(exp int) error {
	curve, err := p.curve()
	if err != nil {
		return err
	}
	if exp > curve[MaxLevel] {
		return fmt.Errorf("%w: experience %d", types.ErrOutOfRange, exp)
	}
	p.experience, p.level = exp, calc.LevelForExperience(curve, exp)
	return nil
}

func (p *Pokemon) loadHeldItem(index int) error {
	if index == 0 {
		return nil
	}
	item, err := p.db.ItemByIndex(index, p.game)
	if err != nil {
		return invalid(err, "held item %d in %s", index, p.game)
	}
	p.heldItem = item.Name
	return nil
}

func (p *Pokemon) heldItemIndex() (int, error) {
	if p.heldItem == types.ItemNone {
		return 0, nil
	}
	item, err := p.db.Item(p.heldItem, p.game)
	if err != nil {
		return 0, err
	}
	return item.GameIndex, nil
}

func (p *Pokemon) loadLocation(index int) error {
	l, err := p.db.LocationByIndex(index, p.game)
	if err != nil {
		return invalid(err, "location %d in %s", index, p.game)
	}
	p.locationMet = l.Name
	return nil
}

func (p *Pokemon) locationIndex() (int, error) {
	l, err := p.db.Location(p.locationMet, p.game)
	if err != nil {
		return 0, err
	}
	return l.GameIndex, nil
}

func (p *Pokemon) statArray() []uint16 {
	stats := p.Stats()
	var out []uint16
	for _, s := range types.StatNames(p.Generation()) {
		out = append(out, uint16(stats[s]))
	}
	return out
}

func fromPK1(db types.Database, game types.Game, r binfmt.PK1, otName, nickname string) (*Pokemon, error) {
	entry, err := decodeSpecies(db, int(r.Species), game)
	if err != nil {
		return nil, err
	}
	p := newPokemon(db, game, entry)
	p.nickname, p.otName, p.otID = nickname, otName, uint32(r.OTID)
	p.catchRate = int(r.CatchRate)
	p.condition = conditionOf(r.Status)
	var ids, pp, ups [NumMoves]int
	for i := range NumMoves {
		ids[i], pp[i], ups[i] = int(r.Moves[i]), int(r.PP[i]&0x3F), int(r.PP[i]>>6)
	}
	if err := p.loadMoves(ids, pp, ups); err != nil {
		return nil, err
	}
	for i, iv := range binfmt.IVNibbles(r.IVs) {
		p.ivs[gen2StoredIVs[i]] = iv
	}
	for i, s := range evNames(1) {
		p.evs[s] = int(r.EVs[i])
	}
	if err := p.loadExperience(int(r.Experience)); err != nil {
		return nil, err
	}
	p.currentHP = min(int(r.CurrentHP), p.maxHP())
	return p, nil
}

func (p *Pokemon) toPK1() (binfmt.PK1, error) {
	ids, err := p.moveIDs()
	if err != nil {
		return binfmt.PK1{}, err
	}
	r := binfmt.PK1{
		Species:    byte(p.species.GameIndex),
		CurrentHP:  uint16(p.currentHP),
		BoxLevel:   byte(p.level),
		Status:     conditionBits[p.condition],
		CatchRate:  byte(p.catchRate),
		OTID:       uint16(p.otID),
		Experience: uint32(p.experience),
		Level:      byte(p.level),
	}
	for i, t := range p.species.Types {
		if i < 2 {
			r.Types[i] = gen1TypeIDs[t]
		}
	}
	if len(p.species.Types) == 1 {
		r.Types[1] = r.Types[0]
	}
	for i := range NumMoves {
		r.Moves[i] = byte(ids[i])
		r.PP[i] = byte(p.ppUps[i])<<6 | byte(p.moves[i].PP)
	}
	v := p.gen2IVs()
	r.IVs = binfmt.PackIVs([4]int{v.Attack, v.Defense, v.Speed, v.Special})
	for i, s := range evNames(1) {
		r.EVs[i] = uint16(p.evs[s])
	}
	copy(r.Stats[:], p.statArray())
	return r, nil
}

func fromPK2(db types.Database, game types.Game, r binfmt.PK2, egg bool, otName, nickname string) (*Pokemon, error) {
	entry, err := decodeSpecies(db, int(r.Species), game)
	if err != nil {
		return nil, err
	}
	p := newPokemon(db, game, entry)
	p.nickname, p.otName, p.otID = nickname, otName, uint32(r.OTID)
	p.egg = egg
	p.condition = conditionOf(r.Status)
	p.friendship = int(r.Friendship)
	p.pokerus = int(r.Pokerus)
	p.timeOfDay = int(r.TimeOfDay)
	p.levelMet = int(r.LevelMet)
	p.otFemale = r.OTFemale
	if err := p.loadHeldItem(int(r.HeldItem)); err != nil {
		return nil, err
	}
	if err := p.loadLocation(int(r.LocationMet)); err != nil {
		return nil, err
	}
	var ids, pp, ups [NumMoves]int
	for i := range NumMoves {
		ids[i], pp[i], ups[i] = int(r.Moves[i]), int(r.PP[i]&0x3F), int(r.PP[i]>>6)
	}
	if err := p.loadMoves(ids, pp, ups); err != nil {
		return nil, err
	}
	for i, iv := range binfmt.IVNibbles(r.IVs) {
		p.ivs[gen2StoredIVs[i]] = iv
	}
	for i, s := range evNames(2) {
		p.evs[s] = int(r.EVs[i])
	}
	if err := p.loadExperience(int(r.Experience)); err != nil {
		return nil, err
	}
	p.currentHP = p.maxHP()
	if r.Stats[0] != 0 {
		// Box records store no HP; boxed Pokémon are healed.
		p.currentHP = min(int(r.CurrentHP), p.currentHP)
	}
	return p, nil
}

func (p *Pokemon) toPK2() (binfmt.PK2, error) {
	ids, err := p.moveIDs()
	if err != nil {
		return binfmt.PK2{}, err
	}
	item, err := p.heldItemIndex()
	if err != nil {
		return binfmt.PK2{}, err
	}
	loc, err := p.locationIndex()
	if err != nil {
		return binfmt.PK2{}, err
	}
	r := binfmt.PK2{
		Species:     byte(p.species.GameIndex),
		HeldItem:    byte(item),
		OTID:        uint16(p.otID),
		Experience:  uint32(p.experience),
		Friendship:  byte(p.friendship),
		Pokerus:     byte(p.pokerus),
		TimeOfDay:   byte(p.timeOfDay),
		LevelMet:    byte(p.levelMet),
		OTFemale:    p.otFemale,
		LocationMet: byte(loc),
		Level:       byte(p.level),
		Status:      conditionBits[p.condition],
		CurrentHP:   uint16(p.currentHP),
	}
	for i := range NumMoves {
		r.Moves[i] = byte(ids[i])
		r.PP[i] = byte(p.ppUps[i])<<6 | byte(p.moves[i].PP)
	}
	v := p.gen2IVs()
	r.IVs = binfmt.PackIVs([4]int{v.Attack, v.Defense, v.Speed, v.Special})
	for i, s := range evNames(2) {
		r.EVs[i] = uint16(p.evs[s])
	}
	copy(r.Stats[:], p.statArray())
	return r, nil
}

// gen3Fields carries the fields PK3 and GameCube records share, in the
// widths of the wider format.
type gen3Fields struct {
	personality, otID uint32
	nickname, otName  string
	markings          byte
	species, heldItem int
	experience        int
	friendship        int
	moves, pp, ppUps  [NumMoves]int
	evs, ivs, contest [6]int
	pokerus           byte
	location          int
	levelMet          int
	origin            byte
	ball              int
	otFemale          bool
	egg               bool
	abilitySlot       int
	ribbons           uint32
	status            byte
	currentHP         int
	party             bool
}

func fromGen3(db types.Database, game types.Game, f gen3Fields) (*Pokemon, error) {
	entry, err := decodeSpecies(db, f.species, game)
	if err != nil {
		return nil, err
	}
	p := newPokemon(db, game, entry)
	p.personality, p.otID = f.personality, f.otID
	p.nickname, p.otName = f.nickname, f.otName
	for i, m := range types.MarkingNames(3) {
		p.markings[m] = f.markings&(1<<i) != 0
	}
	if err := p.loadHeldItem(f.heldItem); err != nil {
		return nil, err
	}
	p.friendship = f.friendship
	if err := p.loadMoves(f.moves, f.pp, f.ppUps); err != nil {
		return nil, err
	}
	for i, s := range types.StatNames(3) {
		p.evs[s] = f.evs[i]
		p.ivs[s] = f.ivs[i]
	}
	for i, c := range types.ContestStatNames(3) {
		p.contest[c] = f.contest[i]
	}
	p.pokerus = int(f.pokerus)
	if err := p.loadLocation(f.location); err != nil {
		return nil, err
	}
	p.levelMet = f.levelMet
	if p.originalGame, err = originGame(f.origin, game); err != nil {
		return nil, err
	}
	if f.ball != 0 {
		ball, err := db.ItemByIndex(f.ball, game)
		if err != nil {
			return nil, invalid(err, "ball %d in %s", f.ball, game)
		}
		p.ball = ball.Name
	}
	p.otFemale = f.otFemale
	p.egg = f.egg
	if f.abilitySlot < len(entry.Abilities) {
		p.ability = entry.Abilities[f.abilitySlot]
	}
	for i, on := range binfmt.RibbonSet(f.ribbons) {
		p.ribbons[types.RibbonNames(3)[i]] = on
	}
	p.condition = conditionOf(f.status)
	if err := p.loadExperience(f.experience); err != nil {
		return nil, err
	}
	p.currentHP = p.maxHP()
	if f.party {
		p.currentHP = min(f.currentHP, p.currentHP)
	}
	return p, nil
}

func (p *Pokemon) gen3Fields() (gen3Fields, error) {
	var f gen3Fields
	ids, err := p.moveIDs()
	if err != nil {
		return f, err
	}
	if f.heldItem, err = p.heldItemIndex(); err != nil {
		return f, err
	}
	if f.location, err = p.locationIndex(); err != nil {
		return f, err
	}
	ball, err := p.db.Item(p.ball, p.game)
	if err != nil {
		return f, err
	}
	f.personality, f.otID = p.personality, p.otID
	f.nickname, f.otName = p.nickname, p.otName
	for i, m := range types.MarkingNames(3) {
		if p.markings[m] {
			f.markings |= 1 << i
		}
	}
	f.species = p.species.GameIndex
	f.experience = p.experience
	f.friendship = p.friendship
	f.moves = ids
	for i, m := range p.moves {
		f.pp[i] = m.PP
	}
	f.ppUps = p.ppUps
	for i, s := range types.StatNames(3) {
		f.evs[i], f.ivs[i] = p.evs[s], p.ivs[s]
	}
	for i, c := range types.ContestStatNames(3) {
		f.contest[i] = p.contest[c]
	}
	f.pokerus = byte(p.pokerus)
	f.levelMet = p.levelMet
	f.origin = originCodes[p.originalGame]
	f.ball = ball.GameIndex
	f.otFemale = p.otFemale
	f.egg = p.egg
	f.abilitySlot = max(0, slices.Index(p.species.Abilities, p.ability))
	var flags []bool
	for _, r := range types.RibbonNames(3) {
		flags = append(flags, p.ribbons[r])
	}
	f.ribbons = binfmt.RibbonWord(flags)
	f.status = conditionBits[p.condition]
	f.currentHP = p.currentHP
	return f, nil
}

func fromPK3(db types.Database, game types.Game, r binfmt.PK3) (*Pokemon, error) {
	f := gen3Fields{
		personality: r.Personality, otID: r.OTID,
		nickname: r.Nickname, otName: r.OTName, markings: r.Markings,
		species: int(r.Species), heldItem: int(r.HeldItem),
		experience: int(r.Experience), friendship: int(r.Friendship),
		pokerus: r.Pokerus, location: int(r.LocationMet), levelMet: int(r.LevelMet),
		origin: r.OriginGame, ball: int(r.Ball), otFemale: r.OTFemale, egg: r.IsEgg,
		abilitySlot: int(r.AbilitySlot), ribbons: r.Ribbons, status: byte(r.Status),
		currentHP: int(r.CurrentHP), party: r.Level != 0,
	}
	for i := range NumMoves {
		f.moves[i], f.pp[i], f.ppUps[i] = int(r.Moves[i]), int(r.PP[i]), int(r.PPUps>>(2*i)&3)
	}
	for i := range 6 {
		f.evs[i], f.ivs[i], f.contest[i] = int(r.EVs[i]), int(r.IVs[i]), int(r.Contest[i])
	}
	return fromGen3(db, game, f)
}

func (p *Pokemon) toPK3() (binfmt.PK3, error) {
	f, err := p.gen3Fields()
	if err != nil {
		return binfmt.PK3{}, err
	}
	r := binfmt.PK3{
		Personality: f.personality, OTID: f.otID,
		Nickname: f.nickname, OTName: f.otName, Markings: f.markings,
		Species: uint16(f.species), HeldItem: uint16(f.heldItem),
		Experience: uint32(f.experience), Friendship: byte(f.friendship),
		Pokerus: f.pokerus, LocationMet: byte(f.location), LevelMet: byte(f.levelMet),
		OriginGame: f.origin, Ball: byte(f.ball), OTFemale: f.otFemale, IsEgg: f.egg,
		AbilitySlot: byte(f.abilitySlot), Ribbons: f.ribbons, Status: uint32(f.status),
		Level: byte(p.level), CurrentHP: uint16(f.currentHP),
	}
	for i := range NumMoves {
		r.Moves[i], r.PP[i] = uint16(f.moves[i]), byte(f.pp[i])
		r.PPUps |= byte(f.ppUps[i]) << (2 * i)
	}
	for i := range 6 {
		r.EVs[i], r.IVs[i], r.Contest[i] = byte(f.evs[i]), byte(f.ivs[i]), byte(f.contest[i])
	}
	copy(r.Stats[:], p.statArray())
	return r, nil
}

func fromGCN(db types.Database, game types.Game, r binfmt.GCN) (*Pokemon, error) {
	f := gen3Fields{
		personality: r.Personality, otID: r.OTID,
		nickname: r.Nickname, otName: r.OTName, markings: r.Markings,
		species: int(r.Species), heldItem: int(r.HeldItem),
		experience: int(r.Experience), friendship: int(r.Friendship),
		pokerus: r.Pokerus, location: int(r.LocationMet), levelMet: int(r.LevelMet),
		origin: r.OriginGame, ball: int(r.Ball), otFemale: r.OTFemale, egg: r.IsEgg,
		abilitySlot: int(r.AbilitySlot), ribbons: r.Ribbons, status: r.Status,
		currentHP: int(r.CurrentHP), party: true,
	}
	for i := range NumMoves {
		f.moves[i], f.pp[i], f.ppUps[i] = int(r.Moves[i]), int(r.PP[i]), int(r.PPUps[i])
	}
	for i := range 6 {
		f.evs[i], f.ivs[i], f.contest[i] = int(r.EVs[i]), int(r.IVs[i]), int(r.Contest[i])
	}
	return fromGen3(db, game, f)
}

func (p *Pokemon) toGCN() (binfmt.GCN, error) {
	f, err := p.gen3Fields()
	if err != nil {
		return binfmt.GCN{}, err
	}
	r := binfmt.GCN{
		Personality: f.personality, OTID: f.otID,
		Species: uint16(f.species), HeldItem: uint16(f.heldItem),
		Experience: uint32(f.experience), Friendship: byte(f.friendship),
		Level: byte(p.level), LevelMet: byte(f.levelMet), Ball: byte(f.ball),
		LocationMet: uint16(f.location), OriginGame: f.origin, IsEgg: f.egg,
		AbilitySlot: byte(f.abilitySlot), OTFemale: f.otFemale, Pokerus: f.pokerus,
		Markings: f.markings, Status: f.status, CurrentHP: uint16(f.currentHP),
		Ribbons: f.ribbons, OTName: f.otName, Nickname: f.nickname,
	}
	for i := range NumMoves {
		r.Moves[i], r.PP[i], r.PPUps[i] = uint16(f.moves[i]), byte(f.pp[i]), byte(f.ppUps[i])
	}
	for i := range 6 {
		r.EVs[i], r.IVs[i], r.Contest[i] = uint16(f.evs[i]), byte(f.ivs[i]), byte(f.contest[i])
	}
	copy(r.Stats[:], p.statArray())
	return r, nil
}
