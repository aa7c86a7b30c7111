package pkmn

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/pkg/calc"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

func TestNewPokemonDefaults(t *testing.T) {
	db := openDB(t)
	tests := []struct {
		game     types.Game
		nickname string
		otID     uint32
		location string
		ball     string
		ability  string
	}{
		{types.GameRed, "PIKACHU", 12345, "", "", ""},
		{types.GameCrystal, "PIKACHU", 12345, "Unknown", "", ""},
		{types.GameEmerald, "PIKACHU", DefaultTrainerID, "Fateful encounter", DefaultBall, "Static"},
		{types.GameColosseum, "PIKACHU", DefaultTrainerID, "Distant land", DefaultBall, "Static"},
		{types.GameDiamond, "Pikachu", DefaultTrainerID, "Faraway place", DefaultBall, "Static"},
	}
	for _, tt := range tests {
		t.Run(tt.game.String(), func(t *testing.T) {
			p := mustPokemon(t, db, "Pikachu", tt.game, 25)
			assert.False(t, p.IsNone())
			assert.Equal(t, "Pikachu", p.Species())
			assert.Equal(t, tt.game, p.Game())
			assert.Equal(t, tt.nickname, p.Nickname())
			assert.Equal(t, DefaultTrainerName, p.OriginalTrainerName())
			assert.Equal(t, tt.otID, p.OriginalTrainerID())
			assert.Equal(t, tt.location, p.LocationMet())
			assert.Equal(t, tt.ball, p.Ball())
			assert.Equal(t, tt.ability, p.Ability())
			assert.Equal(t, 25, p.Level())
			exp, err := calc.Experience(types.GrowthMediumFast, 25)
			require.NoError(t, err)
			assert.Equal(t, exp, p.Experience())
			assert.Equal(t, p.Stats()[types.StatHP], p.CurrentHP())
			assert.False(t, p.IsShiny())
			assert.False(t, p.IsEgg())
			assert.Equal(t, types.ItemNone, p.HeldItem())
			assert.Equal(t, "Standard", p.Form())
			for _, m := range p.Moves() {
				assert.Equal(t, types.MoveNone, m.Move)
			}
		})
	}
}

func TestNewPokemonGen4EggLocation(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Turtwig", types.GameDiamond, 5)
	assert.Equal(t, "Mystery Zone", p.LocationMetAsEgg())
	assert.Equal(t, types.GameDiamond, p.OriginalGame())
}

func TestNewPokemonErrors(t *testing.T) {
	db := openDB(t)
	tests := []struct {
		name    string
		species string
		game    types.Game
		form    string
		level   int
		want    error
	}{
		{"species from a later generation", "Chikorita", types.GameRed, "", 5, types.ErrInvalidValue},
		{"unknown species", "Missingno", types.GameRed, "", 5, types.ErrInvalidValue},
		{"level zero", "Pikachu", types.GameRed, "", 0, types.ErrOutOfRange},
		{"level above 100", "Pikachu", types.GameRed, "", 101, types.ErrOutOfRange},
		{"invalid game", "Pikachu", types.GameNone, "", 5, types.ErrInvalidValue},
		{"unknown form", "Pikachu", types.GameCrystal, "Cosplay", 5, types.ErrInvalidValue},
		{"Unown letter from a later generation", "Unown", types.GameCrystal, "!", 5, types.ErrInvalidValue},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPokemon(db, tt.species, tt.game, tt.form, tt.level)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestNonePlaceholder(t *testing.T) {
	db := openDB(t)
	p, err := NewPokemon(db, types.SpeciesNone, types.GameEmerald, "", 0)
	require.NoError(t, err)

	assert.True(t, p.IsNone())
	assert.Equal(t, types.SpeciesNone, p.Species())
	assert.Empty(t, p.Stats())
	assert.ErrorIs(t, p.SetLevel(5), types.ErrUnsupported)
	assert.ErrorIs(t, p.SetNickname("X"), types.ErrUnsupported)
}

func TestOriginalTrainerIDHalves(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Torchic", types.GameEmerald, 5)

	require.NoError(t, p.SetOriginalTrainerID(0x1234ABCD))
	assert.Equal(t, uint16(0xABCD), p.PublicID())
	assert.Equal(t, uint16(0x1234), p.SecretID())

	require.NoError(t, p.SetPublicID(0x1A2B))
	assert.Equal(t, uint32(0x12341A2B), p.OriginalTrainerID())
	assert.Equal(t, uint16(0x1234), p.SecretID())

	require.NoError(t, p.SetSecretID(0xBEEF))
	assert.Equal(t, uint32(0xBEEF1A2B), p.OriginalTrainerID())
}

func TestGen2TrainerIDIsSixteenBits(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Pikachu", types.GameCrystal, 5)

	assert.ErrorIs(t, p.SetOriginalTrainerID(0x10000), types.ErrOutOfRange)
	assert.ErrorIs(t, p.SetSecretID(1), types.ErrFieldNotApplicable)
	require.NoError(t, p.SetOriginalTrainerID(0xFFFF))
	assert.Equal(t, uint32(0xFFFF), p.OriginalTrainerID())
}

func TestFieldNotApplicable(t *testing.T) {
	db := openDB(t)
	red := mustPokemon(t, db, "Pikachu", types.GameRed, 5)
	crystal := mustPokemon(t, db, "Pikachu", types.GameCrystal, 5)

	tests := []struct {
		name string
		set  func() error
	}{
		{"gen I held item", func() error { return red.SetHeldItem("Potion") }},
		{"gen I friendship", func() error { return red.SetFriendship(70) }},
		{"gen I gender", func() error { return red.SetGender(types.GenderFemale) }},
		{"gen I shininess", func() error { return red.SetShiny(true) }},
		{"gen I egg flag", func() error { return red.SetIsEgg(true) }},
		{"gen II ability", func() error { return crystal.SetAbility("Static") }},
		{"gen II ball", func() error { return crystal.SetBall("Great Ball") }},
		{"gen II personality", func() error { return crystal.SetPersonality(1) }},
		{"gen II markings", func() error { return crystal.SetMarking(types.MarkingCircle, true) }},
		{"gen II ribbons", func() error { return crystal.SetRibbon("Champion", true) }},
		{"gen II contest stats", func() error { return crystal.SetContestStat(types.ContestCool, 10) }},
		{"gen II egg location", func() error { return crystal.SetLocationMetAsEgg("Mystery Zone") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.set()
			assert.ErrorIs(t, err, types.ErrFieldNotApplicable)
			assert.ErrorIs(t, err, types.ErrInvalidValue)
		})
	}

	assert.Equal(t, types.ItemNone, red.HeldItem())
	assert.Equal(t, 0, red.Friendship())
	assert.Empty(t, red.Gender())
	assert.Empty(t, crystal.Ability())
	assert.Empty(t, crystal.Markings())
}

func TestLevelAndExperience(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Pikachu", types.GameCrystal, 5)

	require.NoError(t, p.SetLevel(50))
	assert.Equal(t, 125000, p.Experience())

	require.NoError(t, p.SetExperience(125000+100))
	assert.Equal(t, 50, p.Level())

	require.NoError(t, p.SetExperience(51*51*51))
	assert.Equal(t, 51, p.Level())

	assert.ErrorIs(t, p.SetExperience(1_000_001), types.ErrOutOfRange)
	assert.ErrorIs(t, p.SetLevel(0), types.ErrOutOfRange)
	assert.Equal(t, 51, p.Level())
}

func TestMovesAndPP(t *testing.T) {
	db := openDB(t)
	p := mustPokemon(t, db, "Pikachu", types.GameRed, 20)

	require.NoError(t, p.SetMove(0, "Thunderbolt"))
	assert.Equal(t, MoveSlot{Move: "Thunderbolt", PP: 15}, p.Moves()[0])

	require.NoError(t, p.SetPPUps(0, 3))
	limit, err := p.MaxPP(0)
	require.NoError(t, err)
	assert.Equal(t, 24, limit)
	require.NoError(t, p.SetMovePP(0, 24))
	assert.ErrorIs(t, p.SetMovePP(0, 25), types.ErrOutOfRange)

	assert.ErrorIs(t, p.SetMove(1, "Crunch"), types.ErrInvalidValue, "gen II move in gen I")
	assert.ErrorIs(t, p.SetMove(4, "Thunder"), types.ErrOutOfRange)
	assert.ErrorIs(t, p.SetPPUps(1, 1), types.ErrInvalidValue, "empty slot")
	assert.ErrorIs(t, p.SetPPUps(0, 4), types.ErrOutOfRange)

	require.NoError(t, p.SetMove(0, types.MoveNone))
	assert.Equal(t, types.MoveNone, p.Moves()[0].Move)
	assert.Equal(t, 0, p.PPUps(0))
}

func TestNamesAreValidated(t *testing.T) {
	db := openDB(t)
	red := mustPokemon(t, db, "Pikachu", types.GameRed, 5)
	xd := mustPokemon(t, db, "Pikachu", types.GameXD, 5)

	require.NoError(t, red.SetNickname("SPARKY"))
	assert.Equal(t, "SPARKY", red.Nickname())
	assert.ErrorIs(t, red.SetNickname(""), types.ErrInvalidValue)
	assert.ErrorIs(t, red.SetNickname("ELEVENCHARS"), types.ErrInvalidValue)
	assert.ErrorIs(t, red.SetOriginalTrainerName("ASHKETCH"), types.ErrInvalidValue)

	require.NoError(t, xd.SetOriginalTrainerName("Michael123"))
	assert.Equal(t, "Michael123", xd.OriginalTrainerName())
}

func TestConditionAndHP(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Pikachu", types.GameYellow, 30)

	require.NoError(t, p.SetCondition(types.ConditionParalysis))
	assert.Equal(t, types.ConditionParalysis, p.Condition())
	assert.ErrorIs(t, p.SetCondition("Confused"), types.ErrInvalidValue)

	hp := p.Stats()[types.StatHP]
	require.NoError(t, p.SetCurrentHP(0))
	assert.ErrorIs(t, p.SetCurrentHP(hp+1), types.ErrOutOfRange)
	assert.Equal(t, 0, p.CurrentHP())
}

func TestCaughtData(t *testing.T) {
	db := openDB(t)
	p := mustPokemon(t, db, "Pikachu", types.GameCrystal, 30)

	require.NoError(t, p.SetHeldItem("Leftovers"))
	assert.Equal(t, "Leftovers", p.HeldItem())
	assert.ErrorIs(t, p.SetHeldItem("Bicycle"), types.ErrInvalidValue, "not holdable")
	assert.ErrorIs(t, p.SetHeldItem("Oran Berry"), types.ErrInvalidValue, "not in gen II")
	assert.Equal(t, "Leftovers", p.HeldItem())

	require.NoError(t, p.SetLocationMet("Route 29"))
	assert.Equal(t, "Route 29", p.LocationMet())
	assert.ErrorIs(t, p.SetLocationMet("Route 101"), types.ErrInvalidValue)

	assert.Equal(t, 30, p.LevelMet())
	assert.ErrorIs(t, p.SetLevelMet(64), types.ErrOutOfRange)

	require.NoError(t, p.SetPokerusDuration(3))
	assert.Equal(t, 3, p.PokerusDuration())
	assert.ErrorIs(t, p.SetPokerusDuration(16), types.ErrOutOfRange)

	require.NoError(t, p.SetOriginalTrainerGender(types.GenderFemale))
	assert.Equal(t, types.GenderFemale, p.OriginalTrainerGender())
	assert.ErrorIs(t, p.SetOriginalTrainerGender("Other"), types.ErrInvalidValue)
}

func TestGen3Fields(t *testing.T) {
	db := openDB(t)
	p := mustPokemon(t, db, "Torchic", types.GameEmerald, 10)

	require.NoError(t, p.SetBall("Great Ball"))
	assert.Equal(t, "Great Ball", p.Ball())
	assert.ErrorIs(t, p.SetBall("Potion"), types.ErrInvalidValue)

	assert.ErrorIs(t, p.SetAbility("Static"), types.ErrInvalidValue)
	require.NoError(t, p.SetAbility("Blaze"))

	require.NoError(t, p.SetOriginalGame(types.GameRuby))
	assert.Equal(t, types.GameRuby, p.OriginalGame())
	assert.ErrorIs(t, p.SetOriginalGame(types.GameCrystal), types.ErrInvalidValue)
	assert.ErrorIs(t, p.SetOriginalGame(types.GameDiamond), types.ErrInvalidValue)

	require.NoError(t, p.SetMarking(types.MarkingHeart, true))
	assert.True(t, p.Markings()[types.MarkingHeart])
	assert.ErrorIs(t, p.SetMarking(types.MarkingStar, true), types.ErrInvalidValue)

	require.NoError(t, p.SetContestStat(types.ContestCute, 200))
	assert.Equal(t, 200, p.ContestStats()[types.ContestCute])
	assert.ErrorIs(t, p.SetContestStat(types.ContestCute, 256), types.ErrOutOfRange)
	assert.ErrorIs(t, p.SetContestStat(types.ContestSheen, 1), types.ErrInvalidValue)

	require.NoError(t, p.SetPersonality(0x0000_0003))
	assert.Equal(t, "Adamant", p.Nature())
}

func TestContestRibbonRanks(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Torchic", types.GameEmerald, 10)

	require.NoError(t, p.SetRibbon("Cool Hyper", true))
	r := p.Ribbons()
	assert.True(t, r["Cool"])
	assert.True(t, r["Cool Super"])
	assert.True(t, r["Cool Hyper"])
	assert.False(t, r["Cool Master"])
	assert.False(t, r["Beauty"])

	require.NoError(t, p.SetRibbon("Cool Super", false))
	r = p.Ribbons()
	assert.True(t, r["Cool"])
	assert.False(t, r["Cool Super"])
	assert.False(t, r["Cool Hyper"])

	require.NoError(t, p.SetRibbon("Champion", true))
	assert.True(t, p.Ribbons()["Champion"])
	assert.ErrorIs(t, p.SetRibbon("Sinnoh Champ", true), types.ErrInvalidValue)
	assert.Len(t, p.Ribbons(), 32)
}

func TestCloneIsDeep(t *testing.T) {
	p := mustPokemon(t, openDB(t), "Torchic", types.GameEmerald, 10)
	require.NoError(t, p.SetEV(types.StatSpeed, 100))

	q := p.Clone()
	require.NoError(t, q.SetEV(types.StatSpeed, 200))
	require.NoError(t, q.SetMarking(types.MarkingCircle, true))
	require.NoError(t, q.SetNickname("BLAZE"))

	assert.Equal(t, 100, p.EVs()[types.StatSpeed])
	assert.False(t, p.Markings()[types.MarkingCircle])
	assert.Equal(t, "TORCHIC", p.Nickname())
}
