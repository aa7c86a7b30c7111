package types

// Names used by the None entries of species, items, moves and locations.
const (
	SpeciesNone  = "None"
	ItemNone     = "None"
	MoveNone     = "None"
	LocationNone = "None"
)

// Stat names. Gen I uses StatSpecial; later generations split it.
const (
	StatHP             = "HP"
	StatAttack         = "Attack"
	StatDefense        = "Defense"
	StatSpeed          = "Speed"
	StatSpecial        = "Special"
	StatSpecialAttack  = "Special Attack"
	StatSpecialDefense = "Special Defense"
)

// Gender names. Gen I Pokémon report an empty gender.
const (
	GenderMale       = "Male"
	GenderFemale     = "Female"
	GenderGenderless = "Genderless"
)

// Status conditions.
const (
	ConditionNone      = "None"
	ConditionAsleep    = "Asleep"
	ConditionPoison    = "Poison"
	ConditionBurn      = "Burn"
	ConditionFrozen    = "Frozen"
	ConditionParalysis = "Paralysis"
)

// Markings. Star and Diamond exist from gen IV.
const (
	MarkingCircle   = "Circle"
	MarkingTriangle = "Triangle"
	MarkingSquare   = "Square"
	MarkingHeart    = "Heart"
	MarkingStar     = "Star"
	MarkingDiamond  = "Diamond"
)

// Contest stats. Sheen replaces Feel in gen IV.
const (
	ContestCool   = "Cool"
	ContestBeauty = "Beauty"
	ContestCute   = "Cute"
	ContestSmart  = "Smart"
	ContestTough  = "Tough"
	ContestFeel   = "Feel"
	ContestSheen  = "Sheen"
)

// StatNames returns the stat names of a generation in storage order.
func StatNames(generation int) []string {
	if generation == 1 {
		return []string{StatHP, StatAttack, StatDefense, StatSpeed, StatSpecial}
	}
	return []string{StatHP, StatAttack, StatDefense, StatSpeed, StatSpecialAttack, StatSpecialDefense}
}

// IVNames returns the IV/EV names of a generation. Gen I and II store a
// single Special IV.
func IVNames(generation int) []string {
	if generation <= 2 {
		return []string{StatHP, StatAttack, StatDefense, StatSpeed, StatSpecial}
	}
	return StatNames(generation)
}

// MarkingNames returns the markings of a generation, or nil before gen III.
func MarkingNames(generation int) []string {
	switch {
	case generation < 3:
		return nil
	case generation == 3:
		return []string{MarkingCircle, MarkingTriangle, MarkingSquare, MarkingHeart}
	default:
		return []string{MarkingCircle, MarkingTriangle, MarkingSquare, MarkingHeart, MarkingStar, MarkingDiamond}
	}
}

// ContestStatNames returns the contest stats of a generation, or nil before gen III.
func ContestStatNames(generation int) []string {
	switch {
	case generation < 3:
		return nil
	case generation == 3:
		return []string{ContestCool, ContestBeauty, ContestCute, ContestSmart, ContestTough, ContestFeel}
	default:
		return []string{ContestCool, ContestBeauty, ContestCute, ContestSmart, ContestTough, ContestSheen}
	}
}

var contestRibbons = func() []string {
	var out []string
	for _, c := range []string{ContestCool, ContestBeauty, ContestCute, ContestSmart, ContestTough} {
		out = append(out, c, c+" Super", c+" Hyper", c+" Master")
	}
	return out
}()

var gen3Ribbons = []string{
	"Champion", "Winning", "Victory", "Artist", "Effort",
	"Marine", "Land", "Sky", "Country", "National", "Earth", "World",
}

var gen4Ribbons = []string{
	"Sinnoh Champ", "Ability", "Great Ability", "Double Ability", "Multi Ability",
	"Pair Ability", "World Ability", "Alert", "Shock", "Downcast", "Careless",
	"Relax", "Snooze", "Smile", "Gorgeous", "Royal", "Gorgeous Royal",
	"Footprint", "Record", "Legend",
}

// RibbonNames returns the ribbon set of a generation, or nil before gen III.
// The first 32 names are in gen III storage order.
func RibbonNames(generation int) []string {
	if generation < 3 {
		return nil
	}
	out := append(append([]string(nil), contestRibbons...), gen3Ribbons...)
	if generation >= 4 {
		out = append(out, gen4Ribbons...)
	}
	return out
}

// Natures in personality-value order.
var Natures = []string{
	"Hardy", "Lonely", "Brave", "Adamant", "Naughty",
	"Bold", "Docile", "Relaxed", "Impish", "Lax",
	"Timid", "Hasty", "Serious", "Jolly", "Naive",
	"Modest", "Mild", "Quiet", "Bashful", "Rash",
	"Calm", "Gentle", "Sassy", "Careful", "Quirky",
}
