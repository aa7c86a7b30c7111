package pkmn

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/mesh-intelligence/pkmn/internal/savefile"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// MaxMoney is the most money any save holds.
const MaxMoney = 999999

// Play time is counted in frames.
const framesPerSecond = 60

// GameSave is a whole save file: trainer data, party, PC, item storage,
// Pokédex and game-specific attributes.
type GameSave struct {
	db     types.Database
	save   *savefile.Save
	layout savefile.Layout
	path   string

	party  *Party
	pc     *PC
	bag    *ItemBag
	itemPC *ItemList
	dex    *Pokedex
}

// DetectSaveType identifies the format of the save file at path.
func DetectSaveType(path string) (types.SaveType, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.SaveTypeNone, fmt.Errorf("reading save: %w", err)
	}
	return DetectSaveTypeBytes(data)
}

// DetectSaveTypeBytes identifies the format of a save image.
func DetectSaveTypeBytes(data []byte) (types.SaveType, error) {
	return savefile.Detect(data)
}

// LoadGameSave reads and decodes the save file at path.
func LoadGameSave(db types.Database, path string) (*GameSave, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading save: %w", err)
	}
	g, err := ParseGameSave(db, data)
	if err != nil {
		return nil, err
	}
	g.path = path
	return g, nil
}

// ParseGameSave decodes a save image. Any inconsistency fails the whole
// load with types.ErrInvalidSave, refined to types.ErrUnknownEntry when the
// save refers to an entry the database lacks.
func ParseGameSave(db types.Database, data []byte) (*GameSave, error) {
	s, err := savefile.Parse(data)
	if err != nil {
		return nil, err
	}
	return newGameSave(db, s)
}

// NewGameSave creates a blank save of type t.
func NewGameSave(db types.Database, t types.SaveType) (*GameSave, error) {
	s, err := savefile.New(t)
	if err != nil {
		return nil, err
	}
	return newGameSave(db, s)
}

func newGameSave(db types.Database, s *savefile.Save) (*GameSave, error) {
	g, err := buildGameSave(db, s)
	if errors.Is(err, types.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrUnknownEntry, s.Type, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", types.ErrInvalidSave, s.Type, err)
	}
	return g, nil
}

func buildGameSave(db types.Database, s *savefile.Save) (*GameSave, error) {
	game := s.Game
	g := &GameSave{db: db, save: s, layout: s.Layout()}
	var err error
	if g.party, err = NewParty(db, game); err != nil {
		return nil, err
	}
	if err := g.party.load(s.Party); err != nil {
		return nil, fmt.Errorf("party: %w", err)
	}
	if g.pc, err = NewPC(db, game); err != nil {
		return nil, err
	}
	for i, b := range g.pc.boxes {
		b.name = s.Boxes[i].Name
		if err := b.load(s.Boxes[i].Slots); err != nil {
			return nil, fmt.Errorf("box %d: %w", i+1, err)
		}
	}
	if g.bag, err = NewItemBag(db, game); err != nil {
		return nil, err
	}
	if g.itemPC, err = NewItemPC(db, game); err != nil {
		return nil, err
	}
	for _, l := range g.itemLists() {
		stored, ok := s.Pocket(l.Name())
		if !ok {
			return nil, fmt.Errorf("pocket %s is not stored", l.Name())
		}
		if err := l.load(stored.Slots); err != nil {
			return nil, fmt.Errorf("pocket %s: %w", l.Name(), err)
		}
	}
	if !game.IsGameCube() {
		if g.dex, err = NewPokedex(db, game); err != nil {
			return nil, err
		}
		g.dex.load(s.Seen, s.Caught)
		g.party.dex = g.dex
		g.pc.attach(g.dex)
	}
	return g, nil
}

func (g *GameSave) itemLists() []*ItemList {
	return append(g.bag.Pockets(), g.itemPC)
}

func (g *GameSave) SaveType() types.SaveType { return g.save.Type }
func (g *GameSave) Game() types.Game         { return g.save.Game }
func (g *GameSave) Generation() int          { return g.save.Game.Generation() }

// Path returns the file the save was loaded from or last written to.
func (g *GameSave) Path() string { return g.path }

func (g *GameSave) Party() *Party     { return g.party }
func (g *GameSave) PC() *PC           { return g.pc }
func (g *GameSave) ItemBag() *ItemBag { return g.bag }
func (g *GameSave) ItemPC() *ItemList { return g.itemPC }

// Pokedex returns the save's Pokédex. GameCube saves have none.
func (g *GameSave) Pokedex() (*Pokedex, error) {
	if g.dex == nil {
		return nil, fmt.Errorf("%w: %s has no Pokédex", types.ErrUnsupported, g.Game())
	}
	return g.dex, nil
}

func (g *GameSave) TrainerName() string { return g.save.TrainerName }

func (g *GameSave) SetTrainerName(name string) error {
	if err := checkText("trainer name", name, g.layout.NameChars, g.Game()); err != nil {
		return err
	}
	g.save.TrainerName = name
	return nil
}

// TrainerID returns the full trainer ID, secret ID in the high half.
func (g *GameSave) TrainerID() uint32       { return g.save.TrainerID }
func (g *GameSave) TrainerPublicID() uint16 { return uint16(g.save.TrainerID) }
func (g *GameSave) TrainerSecretID() uint16 { return uint16(g.save.TrainerID >> 16) }

func (g *GameSave) SetTrainerID(id uint32) error {
	if !g.layout.HasSecretID && id > 0xFFFF {
		return fmt.Errorf("%w: trainer ID %#x wider than 16 bits", types.ErrOutOfRange, id)
	}
	g.save.TrainerID = id
	return nil
}

func (g *GameSave) SetTrainerPublicID(id uint16) error {
	g.save.TrainerID = g.save.TrainerID&0xFFFF_0000 | uint32(id)
	return nil
}

func (g *GameSave) SetTrainerSecretID(id uint16) error {
	if !g.layout.HasSecretID {
		return fmt.Errorf("%w: %s has no secret ID", types.ErrUnsupported, g.Game())
	}
	g.save.TrainerID = uint32(id)<<16 | g.save.TrainerID&0xFFFF
	return nil
}

// TrainerGender returns "Male" or "Female". Games without a choice report
// "Male".
func (g *GameSave) TrainerGender() string {
	if g.save.TrainerFemale {
		return types.GenderFemale
	}
	return types.GenderMale
}

func (g *GameSave) SetTrainerGender(gender string) error {
	if !g.layout.HasGender {
		return fmt.Errorf("%w: %s has no trainer gender", types.ErrUnsupported, g.Game())
	}
	switch gender {
	case types.GenderMale:
		g.save.TrainerFemale = false
	case types.GenderFemale:
		g.save.TrainerFemale = true
	default:
		return fmt.Errorf("%w: trainer gender %q", types.ErrInvalidValue, gender)
	}
	return nil
}

// RivalName returns the rival's name. Ruby, Sapphire and Emerald name the
// rival after the player character not chosen; GameCube saves have none.
func (g *GameSave) RivalName() (string, error) {
	switch {
	case g.layout.HasRival:
		return g.save.RivalName, nil
	case g.Game().IsGameCube():
		return "", fmt.Errorf("%w: %s has no rival", types.ErrUnsupported, g.Game())
	case g.save.TrainerFemale:
		return "BRENDAN", nil
	}
	return "MAY", nil
}

func (g *GameSave) SetRivalName(name string) error {
	if !g.layout.HasRival {
		return fmt.Errorf("%w: rival name is fixed in %s", types.ErrUnsupported, g.Game())
	}
	if err := checkText("rival name", name, g.layout.NameChars, g.Game()); err != nil {
		return err
	}
	g.save.RivalName = name
	return nil
}

func (g *GameSave) Money() int { return g.save.Money }

func (g *GameSave) SetMoney(money int) error {
	if err := checkRange("money", money, 0, MaxMoney); err != nil {
		return err
	}
	g.save.Money = money
	return nil
}

// TimePlayed returns the play time at frame granularity.
func (g *GameSave) TimePlayed() (time.Duration, error) {
	if g.layout.MaxHours == 0 {
		return 0, fmt.Errorf("%w: %s does not store play time", types.ErrUnsupported, g.Game())
	}
	t := g.save.Time
	secs := (t.Hours*60+t.Minutes)*60 + t.Seconds
	return time.Duration(secs)*time.Second + time.Duration(t.Frames)*time.Second/framesPerSecond, nil
}

// SetTimePlayed stores d rounded to the nearest frame.
func (g *GameSave) SetTimePlayed(d time.Duration) error {
	if g.layout.MaxHours == 0 {
		return fmt.Errorf("%w: %s does not store play time", types.ErrUnsupported, g.Game())
	}
	if d < 0 {
		return fmt.Errorf("%w: negative play time %s", types.ErrOutOfRange, d)
	}
	secs := int(d / time.Second)
	frames := int((d%time.Second*framesPerSecond + time.Second/2) / time.Second)
	if frames == framesPerSecond {
		secs, frames = secs+1, 0
	}
	hours := secs / 3600
	if hours > g.layout.MaxHours {
		return fmt.Errorf("%w: %d hours exceeds %d", types.ErrOutOfRange, hours, g.layout.MaxHours)
	}
	g.save.Time = savefile.Time{Hours: hours, Minutes: secs / 60 % 60, Seconds: secs % 60, Frames: frames}
	return nil
}

// NumericAttributeNames lists the numeric attributes of the save's game.
func (g *GameSave) NumericAttributeNames() []string {
	out := make([]string, len(g.layout.Attributes))
	for i, a := range g.layout.Attributes {
		out[i] = a.Name
	}
	return out
}

func (g *GameSave) attribute(name string) (savefile.Attribute, error) {
	i := slices.IndexFunc(g.layout.Attributes, func(a savefile.Attribute) bool { return a.Name == name })
	if i < 0 {
		return savefile.Attribute{}, fmt.Errorf("%w: %q in %s", types.ErrAttributeNotFound, name, g.Game())
	}
	return g.layout.Attributes[i], nil
}

func (g *GameSave) NumericAttribute(name string) (int, error) {
	if _, err := g.attribute(name); err != nil {
		return 0, err
	}
	return g.save.Numbers[name], nil
}

// NumericAttributeRange returns the values SetNumericAttribute accepts for
// name.
func (g *GameSave) NumericAttributeRange(name string) (lo, hi int, err error) {
	a, err := g.attribute(name)
	if err != nil {
		return 0, 0, err
	}
	return a.Min, a.Max, nil
}

// SetNumericAttribute stores v after checking it against the attribute's
// range. Yellow's Pikachu friendship starts at 1: the gen I format has no
// version marker and a zero byte is read back as a Red/Blue save.
func (g *GameSave) SetNumericAttribute(name string, v int) error {
	a, err := g.attribute(name)
	if err != nil {
		return err
	}
	if err := checkRange(name, v, a.Min, a.Max); err != nil {
		return err
	}
	g.save.Numbers[name] = v
	return nil
}

// BooleanAttributeNames lists the boolean attributes of the save's game.
func (g *GameSave) BooleanAttributeNames() []string {
	return slices.Clone(g.layout.FlagNames)
}

func (g *GameSave) BooleanAttribute(name string) (bool, error) {
	if !slices.Contains(g.layout.FlagNames, name) {
		return false, fmt.Errorf("%w: %q in %s", types.ErrAttributeNotFound, name, g.Game())
	}
	return g.save.Flags[name], nil
}

func (g *GameSave) SetBooleanAttribute(name string, v bool) error {
	if !slices.Contains(g.layout.FlagNames, name) {
		return fmt.Errorf("%w: %q in %s", types.ErrAttributeNotFound, name, g.Game())
	}
	g.save.Flags[name] = v
	return nil
}

// sync writes the domain objects back into the stored save.
func (g *GameSave) sync() error {
	s := g.save
	party, err := g.party.store()
	if err != nil {
		return fmt.Errorf("party: %w", err)
	}
	s.Party = party
	for i, b := range g.pc.boxes {
		slots, err := b.store()
		if err != nil {
			return fmt.Errorf("box %d: %w", i+1, err)
		}
		s.Boxes[i] = savefile.Box{Name: b.name, Slots: slots}
	}
	for _, l := range g.itemLists() {
		if stored, ok := s.Pocket(l.Name()); ok {
			stored.Slots = l.store()
		}
	}
	if g.dex != nil {
		copy(s.Seen, g.dex.seen)
		copy(s.Caught, g.dex.caught)
	}
	return nil
}

// Bytes encodes the save image.
func (g *GameSave) Bytes() ([]byte, error) {
	if err := g.sync(); err != nil {
		return nil, err
	}
	return g.save.Bytes()
}

// SaveAs writes the save image to path atomically.
func (g *GameSave) SaveAs(path string) error {
	data, err := g.Bytes()
	if err != nil {
		return err
	}
	if err := writeFileAtomic(path, data); err != nil {
		return fmt.Errorf("writing save: %w", err)
	}
	g.path = path
	return nil
}

// Save writes the save image back to the file it came from.
func (g *GameSave) Save() error {
	if g.path == "" {
		return fmt.Errorf("%w: save was not loaded from a file", types.ErrUnsupported)
	}
	return g.SaveAs(g.path)
}
