package types

import (
	"fmt"
	"strings"
)

// Game identifies a single title. The zero value is GameNone.
type Game int

// Supported games.
const (
	GameNone Game = iota
	GameRed
	GameBlue
	GameYellow
	GameGold
	GameSilver
	GameCrystal
	GameRuby
	GameSapphire
	GameEmerald
	GameFireRed
	GameLeafGreen
	GameColosseum
	GameXD
	GameDiamond
	GamePearl
	GamePlatinum
	GameHeartGold
	GameSoulSilver
)

// Version groups. Games in one group share pocket layouts and item availability.
const (
	VersionGroupRedBlue             = "red_blue"
	VersionGroupYellow              = "yellow"
	VersionGroupGoldSilver          = "gold_silver"
	VersionGroupCrystal             = "crystal"
	VersionGroupRubySapphire        = "ruby_sapphire"
	VersionGroupEmerald             = "emerald"
	VersionGroupFireRedLeafGreen    = "firered_leafgreen"
	VersionGroupColosseum           = "colosseum"
	VersionGroupXD                  = "xd"
	VersionGroupDiamondPearl        = "diamond_pearl"
	VersionGroupPlatinum            = "platinum"
	VersionGroupHeartGoldSoulSilver = "heartgold_soulsilver"
)

// Storage platforms. A platform selects which game-index column of the
// Reference Database applies.
const (
	PlatformGen1 = "gen1"
	PlatformGen2 = "gen2"
	PlatformGen3 = "gen3"
	PlatformGCN  = "gcn"
	PlatformGen4 = "gen4"
)

type gameInfo struct {
	name         string
	generation   int
	versionGroup string
	platform     string
}

var games = map[Game]gameInfo{
	GameRed:        {"Red", 1, VersionGroupRedBlue, PlatformGen1},
	GameBlue:       {"Blue", 1, VersionGroupRedBlue, PlatformGen1},
	GameYellow:     {"Yellow", 1, VersionGroupYellow, PlatformGen1},
	GameGold:       {"Gold", 2, VersionGroupGoldSilver, PlatformGen2},
	GameSilver:     {"Silver", 2, VersionGroupGoldSilver, PlatformGen2},
	GameCrystal:    {"Crystal", 2, VersionGroupCrystal, PlatformGen2},
	GameRuby:       {"Ruby", 3, VersionGroupRubySapphire, PlatformGen3},
	GameSapphire:   {"Sapphire", 3, VersionGroupRubySapphire, PlatformGen3},
	GameEmerald:    {"Emerald", 3, VersionGroupEmerald, PlatformGen3},
	GameFireRed:    {"FireRed", 3, VersionGroupFireRedLeafGreen, PlatformGen3},
	GameLeafGreen:  {"LeafGreen", 3, VersionGroupFireRedLeafGreen, PlatformGen3},
	GameColosseum:  {"Colosseum", 3, VersionGroupColosseum, PlatformGCN},
	GameXD:         {"XD", 3, VersionGroupXD, PlatformGCN},
	GameDiamond:    {"Diamond", 4, VersionGroupDiamondPearl, PlatformGen4},
	GamePearl:      {"Pearl", 4, VersionGroupDiamondPearl, PlatformGen4},
	GamePlatinum:   {"Platinum", 4, VersionGroupPlatinum, PlatformGen4},
	GameHeartGold:  {"HeartGold", 4, VersionGroupHeartGoldSoulSilver, PlatformGen4},
	GameSoulSilver: {"SoulSilver", 4, VersionGroupHeartGoldSoulSilver, PlatformGen4},
}

// AllGames returns every supported game in release order.
func AllGames() []Game {
	out := make([]Game, 0, len(games))
	for g := GameRed; g <= GameSoulSilver; g++ {
		out = append(out, g)
	}
	return out
}

// String returns the display name of the game, or "None".
func (g Game) String() string {
	if info, ok := games[g]; ok {
		return info.name
	}
	return "None"
}

// Valid reports whether g is a supported game.
func (g Game) Valid() bool {
	_, ok := games[g]
	return ok
}

// Generation returns the game's generation (1-4), or 0 for GameNone.
func (g Game) Generation() int {
	return games[g].generation
}

// VersionGroup returns the game's version group key.
func (g Game) VersionGroup() string {
	return games[g].versionGroup
}

// Platform returns the storage platform key of the game.
func (g Game) Platform() string {
	return games[g].platform
}

// IsGameCube reports whether g is Colosseum or XD.
func (g Game) IsGameCube() bool {
	return g == GameColosseum || g == GameXD
}

// NumSpecies returns the size of the national species range for the game's
// generation.
func (g Game) NumSpecies() int {
	switch g.Generation() {
	case 1:
		return 151
	case 2:
		return 251
	case 3:
		return 386
	case 4:
		return 493
	default:
		return 0
	}
}

// ParseGame resolves a display name (case-insensitive) to a Game.
// Returns ErrInvalidValue for unknown names.
func ParseGame(name string) (Game, error) {
	for g, info := range games {
		if strings.EqualFold(info.name, name) {
			return g, nil
		}
	}
	return GameNone, fmt.Errorf("%w: unknown game %q", ErrInvalidValue, name)
}

// SaveType identifies a save-file format. The zero value is SaveTypeNone.
type SaveType int

// Save formats recognized by the codec.
const (
	SaveTypeNone SaveType = iota
	SaveTypeRedBlue
	SaveTypeYellow
	SaveTypeGoldSilver
	SaveTypeCrystal
	SaveTypeRubySapphire
	SaveTypeEmerald
	SaveTypeFireRedLeafGreen
	SaveTypeColosseum
	SaveTypeXD
)

var saveTypes = map[SaveType]struct {
	name  string
	games []Game
}{
	SaveTypeRedBlue:          {"Red/Blue", []Game{GameRed, GameBlue}},
	SaveTypeYellow:           {"Yellow", []Game{GameYellow}},
	SaveTypeGoldSilver:       {"Gold/Silver", []Game{GameGold, GameSilver}},
	SaveTypeCrystal:          {"Crystal", []Game{GameCrystal}},
	SaveTypeRubySapphire:     {"Ruby/Sapphire", []Game{GameRuby, GameSapphire}},
	SaveTypeEmerald:          {"Emerald", []Game{GameEmerald}},
	SaveTypeFireRedLeafGreen: {"FireRed/LeafGreen", []Game{GameFireRed, GameLeafGreen}},
	SaveTypeColosseum:        {"Colosseum", []Game{GameColosseum}},
	SaveTypeXD:               {"XD", []Game{GameXD}},
}

// AllSaveTypes returns every recognized save format.
func AllSaveTypes() []SaveType {
	out := make([]SaveType, 0, len(saveTypes))
	for s := SaveTypeRedBlue; s <= SaveTypeXD; s++ {
		out = append(out, s)
	}
	return out
}

// String returns the display name of the save type.
func (s SaveType) String() string {
	if info, ok := saveTypes[s]; ok {
		return info.name
	}
	return "None"
}

// Games returns the games sharing this save format. The first entry is the
// game a loaded save reports.
func (s SaveType) Games() []Game {
	return append([]Game(nil), saveTypes[s].games...)
}

// Game returns the primary game of the format.
func (s SaveType) Game() Game {
	if info, ok := saveTypes[s]; ok {
		return info.games[0]
	}
	return GameNone
}

// Generation returns the generation of the format.
func (s SaveType) Generation() int {
	return s.Game().Generation()
}

// ParseSaveType resolves a save type by display name or by the name of one of
// its games (case-insensitive).
func ParseSaveType(name string) (SaveType, error) {
	for s, info := range saveTypes {
		if strings.EqualFold(info.name, name) {
			return s, nil
		}
		for _, g := range info.games {
			if strings.EqualFold(g.String(), name) {
				return s, nil
			}
		}
	}
	return SaveTypeNone, fmt.Errorf("%w: unknown save type %q", ErrInvalidValue, name)
}
