package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// JSON reports printed in --json mode. pkmn schema describes them.

type detectReport struct {
	Source     string   `json:"source"`
	SaveType   string   `json:"save_type"`
	Generation int      `json:"generation"`
	Games      []string `json:"games"`
}

type trainerReport struct {
	Name     string `json:"name"`
	ID       uint32 `json:"id"`
	PublicID uint16 `json:"public_id"`
	SecretID uint16 `json:"secret_id"`
	Gender   string `json:"gender,omitempty"`
	Rival    string `json:"rival,omitempty"`
}

type pokedexReport struct {
	Seen   int `json:"seen"`
	Caught int `json:"caught"`
}

type infoReport struct {
	SaveType   string          `json:"save_type"`
	Game       string          `json:"game"`
	Generation int             `json:"generation"`
	Trainer    trainerReport   `json:"trainer"`
	Money      int             `json:"money"`
	TimePlayed string          `json:"time_played,omitempty"`
	PartySize  int             `json:"party_size"`
	Boxed      int             `json:"boxed"`
	Pokedex    *pokedexReport  `json:"pokedex,omitempty"`
	Attributes map[string]int  `json:"attributes,omitempty"`
	Flags      map[string]bool `json:"flags,omitempty"`
}

type pokemonReport struct {
	Slot            int            `json:"slot"`
	Species         string         `json:"species"`
	Form            string         `json:"form,omitempty"`
	Nickname        string         `json:"nickname"`
	Level           int            `json:"level"`
	Experience      int            `json:"experience"`
	Gender          string         `json:"gender,omitempty"`
	Shiny           bool           `json:"shiny,omitempty"`
	Egg             bool           `json:"egg,omitempty"`
	HeldItem        string         `json:"held_item,omitempty"`
	Nature          string         `json:"nature,omitempty"`
	Ability         string         `json:"ability,omitempty"`
	OriginalTrainer string         `json:"original_trainer"`
	TrainerID       uint32         `json:"trainer_id"`
	Moves           []string       `json:"moves"`
	IVs             map[string]int `json:"ivs"`
	EVs             map[string]int `json:"evs"`
	Stats           map[string]int `json:"stats"`
}

type partyReport struct {
	Game    string          `json:"game"`
	Pokemon []pokemonReport `json:"pokemon"`
}

type boxReport struct {
	Box      int             `json:"box"`
	Name     string          `json:"name,omitempty"`
	Capacity int             `json:"capacity"`
	Pokemon  []pokemonReport `json:"pokemon"`
}

type pcReport struct {
	Game  string      `json:"game"`
	Boxes []boxReport `json:"boxes"`
}

type itemReport struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity"`
}

type pocketReport struct {
	Name     string       `json:"name"`
	Kind     string       `json:"kind"`
	Capacity int          `json:"capacity"`
	Items    []itemReport `json:"items"`
}

type bagReport struct {
	Game    string         `json:"game"`
	Pockets []pocketReport `json:"pockets"`
	PC      pocketReport   `json:"pc"`
}

type fileReport struct {
	Path    string `json:"path"`
	Game    string `json:"game"`
	Species string `json:"species,omitempty"`
	Format  string `json:"format"`
}

func newInfoReport(g *pkmn.GameSave) infoReport {
	r := infoReport{
		SaveType:   g.SaveType().String(),
		Game:       g.Game().String(),
		Generation: g.Generation(),
		Trainer: trainerReport{
			Name:     g.TrainerName(),
			ID:       g.TrainerID(),
			PublicID: g.TrainerPublicID(),
			SecretID: g.TrainerSecretID(),
			Gender:   g.TrainerGender(),
		},
		Money:     g.Money(),
		PartySize: g.Party().NumPokemon(),
	}
	if rival, err := g.RivalName(); err == nil {
		r.Trainer.Rival = rival
	}
	if d, err := g.TimePlayed(); err == nil {
		r.TimePlayed = d.String()
	}
	for _, b := range g.PC().Boxes() {
		r.Boxed += b.NumPokemon()
	}
	if dex, err := g.Pokedex(); err == nil {
		r.Pokedex = &pokedexReport{Seen: dex.NumSeen(), Caught: dex.NumCaught()}
	}
	for _, name := range g.NumericAttributeNames() {
		if v, err := g.NumericAttribute(name); err == nil {
			if r.Attributes == nil {
				r.Attributes = map[string]int{}
			}
			r.Attributes[name] = v
		}
	}
	for _, name := range g.BooleanAttributeNames() {
		if v, err := g.BooleanAttribute(name); err == nil {
			if r.Flags == nil {
				r.Flags = map[string]bool{}
			}
			r.Flags[name] = v
		}
	}
	return r
}

func newPokemonReport(slot int, p *pkmn.Pokemon) pokemonReport {
	r := pokemonReport{
		Slot:            slot,
		Species:         p.Species(),
		Form:            p.Form(),
		Nickname:        p.Nickname(),
		Level:           p.Level(),
		Experience:      p.Experience(),
		Gender:          p.Gender(),
		Shiny:           p.IsShiny(),
		Egg:             p.IsEgg(),
		Nature:          p.Nature(),
		Ability:         p.Ability(),
		OriginalTrainer: p.OriginalTrainerName(),
		TrainerID:       p.OriginalTrainerID(),
		Moves:           []string{},
		IVs:             p.IVs(),
		EVs:             p.EVs(),
		Stats:           p.Stats(),
	}
	if item := p.HeldItem(); item != types.ItemNone {
		r.HeldItem = item
	}
	for _, m := range p.Moves() {
		if m.Move != "" && m.Move != types.MoveNone {
			r.Moves = append(r.Moves, m.Move)
		}
	}
	return r
}

// pokemonReports lists the occupied slots of list, numbered from 1.
func pokemonReports(list []*pkmn.Pokemon) []pokemonReport {
	out := []pokemonReport{}
	for i, p := range list {
		if p == nil || p.IsNone() {
			continue
		}
		out = append(out, newPokemonReport(i+1, p))
	}
	return out
}

func newPocketReport(l *pkmn.ItemList) pocketReport {
	r := pocketReport{Name: l.Name(), Kind: l.Kind(), Capacity: l.Capacity(), Items: []itemReport{}}
	for _, s := range l.Slots() {
		if s.Item == types.ItemNone || s.Quantity == 0 {
			continue
		}
		r.Items = append(r.Items, itemReport{Item: s.Item, Quantity: s.Quantity})
	}
	return r
}

func newBagReport(g *pkmn.GameSave) bagReport {
	r := bagReport{Game: g.Game().String(), PC: newPocketReport(g.ItemPC())}
	for _, l := range g.ItemBag().Pockets() {
		r.Pockets = append(r.Pockets, newPocketReport(l))
	}
	return r
}

// Human-readable renderings.

func printInfo(w io.Writer, r infoReport) {
	fmt.Fprintf(w, "Save type:   %s (generation %d)\n", r.SaveType, r.Generation)
	fmt.Fprintf(w, "Game:        %s\n", r.Game)
	fmt.Fprintf(w, "Trainer:     %s (ID %05d", r.Trainer.Name, r.Trainer.PublicID)
	if r.Generation >= 3 {
		fmt.Fprintf(w, ", SID %05d", r.Trainer.SecretID)
	}
	fmt.Fprintln(w, ")")
	if r.Trainer.Gender != "" {
		fmt.Fprintf(w, "Gender:      %s\n", r.Trainer.Gender)
	}
	if r.Trainer.Rival != "" {
		fmt.Fprintf(w, "Rival:       %s\n", r.Trainer.Rival)
	}
	fmt.Fprintf(w, "Money:       %d\n", r.Money)
	if r.TimePlayed != "" {
		fmt.Fprintf(w, "Time played: %s\n", r.TimePlayed)
	}
	fmt.Fprintf(w, "Party:       %d\n", r.PartySize)
	fmt.Fprintf(w, "Boxed:       %d\n", r.Boxed)
	if r.Pokedex != nil {
		fmt.Fprintf(w, "Pokédex:     %d seen, %d caught\n", r.Pokedex.Seen, r.Pokedex.Caught)
	}
	for _, name := range sortedKeys(r.Attributes) {
		fmt.Fprintf(w, "  %s: %d\n", name, r.Attributes[name])
	}
	for _, name := range sortedKeys(r.Flags) {
		fmt.Fprintf(w, "  %s: %t\n", name, r.Flags[name])
	}
}

func printPokemon(w io.Writer, indent string, r pokemonReport) {
	fmt.Fprintf(w, "%s%d. %s (%s) Lv %d", indent, r.Slot, r.Nickname, r.Species, r.Level)
	if r.Form != "" {
		fmt.Fprintf(w, " form %s", r.Form)
	}
	if r.Gender != "" && r.Gender != types.GenderGenderless {
		fmt.Fprintf(w, " %s", r.Gender)
	}
	if r.Shiny {
		fmt.Fprint(w, " shiny")
	}
	if r.Egg {
		fmt.Fprint(w, " egg")
	}
	fmt.Fprintln(w)
	if len(r.Moves) > 0 {
		fmt.Fprintf(w, "%s   moves: %s\n", indent, strings.Join(r.Moves, ", "))
	}
	if r.HeldItem != "" {
		fmt.Fprintf(w, "%s   item:  %s\n", indent, r.HeldItem)
	}
}

func printPocket(w io.Writer, r pocketReport) {
	fmt.Fprintf(w, "%s (%d/%d)\n", r.Name, len(r.Items), r.Capacity)
	for _, it := range r.Items {
		fmt.Fprintf(w, "  %-20s x%d\n", it.Item, it.Quantity)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
