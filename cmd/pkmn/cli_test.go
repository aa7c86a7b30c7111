package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/pkmn/internal/blob"
	"github.com/mesh-intelligence/pkmn/internal/paths"
	"github.com/mesh-intelligence/pkmn/pkg/database"
	"github.com/mesh-intelligence/pkmn/pkg/pkmn"
	"github.com/mesh-intelligence/pkmn/pkg/types"
)

// sharedDatabase is seeded once and reused by every test in the package.
var sharedDatabase string

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "pkmn-cli-")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	sharedDatabase = filepath.Join(dir, paths.DatabaseFileName)
	code := m.Run()
	os.RemoveAll(dir)
	os.Exit(code)
}

// cliEnv isolates one test from the user's configuration.
type cliEnv struct {
	dir       string
	configDir string
	scratch   string
}

func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()
	dir := t.TempDir()
	env := cliEnv{
		dir:       dir,
		configDir: filepath.Join(dir, "config"),
		scratch:   filepath.Join(dir, "scratch"),
	}
	t.Setenv(paths.EnvConfigDir, "")
	t.Setenv(paths.EnvDatabasePath, "")
	t.Setenv(paths.EnvScratchDir, env.scratch)
	t.Setenv(EnvBackend, "")
	t.Setenv(EnvDatabaseDSN, "")
	return env
}

func (e cliEnv) path(name string) string { return filepath.Join(e.dir, name) }

// run executes pkmn with the env's config dir and the shared database.
func (e cliEnv) run(args ...string) (stdout, stderr string, code int) {
	var out, errOut bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--database", sharedDatabase}, args...)
	code = run(full, &out, &errOut)
	return out.String(), errOut.String(), code
}

// runJSON executes pkmn --json and decodes stdout into v.
func (e cliEnv) runJSON(t *testing.T, v any, args ...string) {
	t.Helper()
	stdout, stderr, code := e.run(append([]string{"--json"}, args...)...)
	require.Equal(t, exitSuccess, code, stderr)
	require.NoError(t, json.Unmarshal([]byte(stdout), v), stdout)
}

func (e cliEnv) writeConfig(t *testing.T, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, paths.ConfigFileName), []byte(content), 0o644))
}

// writeSave builds a save of st with build and writes it to name.
func (e cliEnv) writeSave(t *testing.T, name string, st types.SaveType, build func(types.Database, *pkmn.GameSave)) string {
	t.Helper()
	db, err := database.Open(types.Config{Backend: types.BackendSQLite})
	require.NoError(t, err)
	defer db.Detach()

	g, err := pkmn.NewGameSave(db, st)
	require.NoError(t, err)
	if build != nil {
		build(db, g)
	}
	path := e.path(name)
	require.NoError(t, g.SaveAs(path))
	return path
}

func addPokemon(t *testing.T, db types.Database, g *pkmn.GameSave, slot int, species string, level int) {
	t.Helper()
	p, err := pkmn.NewPokemon(db, species, g.Game(), "", level)
	require.NoError(t, err)
	require.NoError(t, g.Party().Set(slot, p))
}

func TestVersion(t *testing.T) {
	env := newCLIEnv(t)
	stdout, _, code := env.run("version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, stdout, "pkmn v"+version)
	assert.Contains(t, stdout, modulePath)
}

func TestInitWritesConfigOnce(t *testing.T) {
	env := newCLIEnv(t)
	stdout, stderr, code := env.run("init")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, stdout, sharedDatabase)

	configPath := filepath.Join(env.configDir, paths.ConfigFileName)
	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "backend: sqlite")
	assert.Contains(t, string(data), "database_path: "+sharedDatabase)

	custom := "backend: sqlite\ntmp_dir: " + env.path("exports") + "\n"
	require.NoError(t, os.WriteFile(configPath, []byte(custom), 0o644))
	_, stderr, code = env.run("init")
	require.Equal(t, exitSuccess, code, stderr)
	data, err = os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
}

func TestNewDetectInfo(t *testing.T) {
	env := newCLIEnv(t)
	save := env.path("crystal.sav")

	_, stderr, code := env.run("new", "--type", "Crystal", "--trainer", "ASH", save)
	require.Equal(t, exitSuccess, code, stderr)

	var det detectReport
	env.runJSON(t, &det, "detect", save)
	assert.Equal(t, "Crystal", det.SaveType)
	assert.Equal(t, 2, det.Generation)
	assert.Equal(t, []string{"Crystal"}, det.Games)

	var info infoReport
	env.runJSON(t, &info, "info", save)
	assert.Equal(t, "Crystal", info.Game)
	assert.Equal(t, "ASH", info.Trainer.Name)
	assert.Equal(t, 0, info.PartySize)
	require.NotNil(t, info.Pokedex)
	assert.Equal(t, 0, info.Pokedex.Caught)

	stdout, stderr, code := env.run("info", save)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, stdout, "Trainer:     ASH")
}

func TestPartyAndPC(t *testing.T) {
	env := newCLIEnv(t)
	save := env.writeSave(t, "emerald.sav", types.SaveTypeEmerald, func(db types.Database, g *pkmn.GameSave) {
		pikachu, err := pkmn.NewPokemon(db, "Pikachu", g.Game(), "", 12)
		require.NoError(t, err)
		require.NoError(t, pikachu.SetMove(0, "Thunderbolt"))
		require.NoError(t, g.Party().Set(0, pikachu))
		p, err := pkmn.NewPokemon(db, "Mudkip", g.Game(), "", 5)
		require.NoError(t, err)
		box, err := g.PC().Box(2)
		require.NoError(t, err)
		require.NoError(t, box.Set(4, p))
	})

	var party partyReport
	env.runJSON(t, &party, "party", save)
	require.Len(t, party.Pokemon, 1)
	assert.Equal(t, 1, party.Pokemon[0].Slot)
	assert.Equal(t, "Pikachu", party.Pokemon[0].Species)
	assert.Equal(t, 12, party.Pokemon[0].Level)
	assert.NotEmpty(t, party.Pokemon[0].Nature)
	assert.Equal(t, []string{"Thunderbolt"}, party.Pokemon[0].Moves)

	var pc pcReport
	env.runJSON(t, &pc, "pc", save, "--box", "3")
	require.Len(t, pc.Boxes, 1)
	assert.Equal(t, 3, pc.Boxes[0].Box)
	assert.Equal(t, 30, pc.Boxes[0].Capacity)
	require.Len(t, pc.Boxes[0].Pokemon, 1)
	assert.Equal(t, 5, pc.Boxes[0].Pokemon[0].Slot)
	assert.Equal(t, "Mudkip", pc.Boxes[0].Pokemon[0].Species)

	env.runJSON(t, &pc, "pc", save)
	assert.Len(t, pc.Boxes, 14)

	_, _, code := env.run("pc", save, "--box", "15")
	assert.Equal(t, exitUserError, code)
}

func TestBag(t *testing.T) {
	env := newCLIEnv(t)
	save := env.writeSave(t, "red.sav", types.SaveTypeRedBlue, func(_ types.Database, g *pkmn.GameSave) {
		require.NoError(t, g.ItemBag().Add("Potion", 4))
		require.NoError(t, g.ItemPC().Add("Great Ball", 2))
	})

	var bag bagReport
	env.runJSON(t, &bag, "bag", save)
	require.Len(t, bag.Pockets, 1)
	assert.Equal(t, "Items", bag.Pockets[0].Name)
	assert.Equal(t, []itemReport{{Item: "Potion", Quantity: 4}}, bag.Pockets[0].Items)
	assert.Equal(t, 50, bag.PC.Capacity)
	assert.Equal(t, []itemReport{{Item: "Great Ball", Quantity: 2}}, bag.PC.Items)
}

func TestExportAndConvert(t *testing.T) {
	env := newCLIEnv(t)
	save := env.writeSave(t, "red.sav", types.SaveTypeRedBlue, func(db types.Database, g *pkmn.GameSave) {
		addPokemon(t, db, g, 0, "Pikachu", 20)
	})

	var exported fileReport
	env.runJSON(t, &exported, "export", save, "--slot", "1")
	assert.Equal(t, env.scratch, filepath.Dir(exported.Path))
	assert.Equal(t, pkmn.ExtPK1, filepath.Ext(exported.Path))
	assert.Equal(t, "Pikachu", exported.Species)
	assert.FileExists(t, exported.Path)

	out := env.path("pikachu.pk2")
	var converted fileReport
	env.runJSON(t, &converted, "convert", exported.Path, "--game", "Crystal", "-o", out)
	assert.Equal(t, out, converted.Path)
	assert.Equal(t, "Crystal", converted.Game)

	db, err := database.Open(types.Config{Backend: types.BackendSQLite})
	require.NoError(t, err)
	defer db.Detach()
	p, err := pkmn.LoadPokemon(db, out)
	require.NoError(t, err)
	assert.Equal(t, "Pikachu", p.Species())
	assert.Equal(t, 20, p.Level())
	assert.Equal(t, types.GameCrystal, p.Game())

	_, _, code := env.run("convert", exported.Path, "--game", "Crystal", "-o", env.path("wrong.pk1"))
	assert.Equal(t, exitUserError, code)
	_, _, code = env.run("convert", exported.Path, "--game", "Ruby")
	assert.Equal(t, exitUserError, code, "gen I Pokémon cannot move to gen III")
	_, _, code = env.run("export", save, "--slot", "2")
	assert.Equal(t, exitUserError, code, "empty slot")
}

func TestExportUsesConfiguredScratchDir(t *testing.T) {
	env := newCLIEnv(t)
	exports := env.path("exports")
	env.writeConfig(t, "backend: sqlite\ntmp_dir: "+exports+"\n")
	save := env.writeSave(t, "gold.sav", types.SaveTypeGoldSilver, func(db types.Database, g *pkmn.GameSave) {
		addPokemon(t, db, g, 0, "Chikorita", 5)
	})

	var exported fileReport
	env.runJSON(t, &exported, "export", save)
	assert.Equal(t, exports, filepath.Dir(exported.Path))
	assert.Equal(t, pkmn.ExtPK2, filepath.Ext(exported.Path))
}

func TestConfigSelectsBackend(t *testing.T) {
	env := newCLIEnv(t)
	env.writeConfig(t, "backend: postgres\n")
	save := env.writeSave(t, "red.sav", types.SaveTypeRedBlue, nil)

	_, stderr, code := env.run("info", save)
	assert.Equal(t, exitUserError, code)
	assert.Contains(t, stderr, types.ErrDSNRequired.Error())

	env.writeConfig(t, "backend: [unterminated\n")
	_, _, code = env.run("info", save)
	assert.NotEqual(t, exitSuccess, code)
}

func TestUserErrors(t *testing.T) {
	env := newCLIEnv(t)
	garbage := env.path("garbage.sav")
	require.NoError(t, os.WriteFile(garbage, bytes.Repeat([]byte{0xAB}, 1234), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{"missing save", []string{"info", env.path("missing.sav")}},
		{"garbage save", []string{"detect", garbage}},
		{"unknown save type", []string{"new", "--type", "Diamond", env.path("d.sav")}},
		{"missing type flag", []string{"new", env.path("d.sav")}},
		{"bad s3 uri", []string{"detect", "s3://bucket-only"}},
		{"unknown command", []string{"trade"}},
		{"unknown schema", []string{"schema", "trade"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, stderr, code := env.run(tt.args...)
			assert.Equal(t, exitUserError, code)
			assert.Contains(t, stderr, "pkmn:")
		})
	}
}

func TestSchema(t *testing.T) {
	env := newCLIEnv(t)
	stdout, stderr, code := env.run("schema", "info")
	require.Equal(t, exitSuccess, code, stderr)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, "pkmn info", doc["title"])
	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, props, "trainer")
	assert.Contains(t, props, "money")

	stdout, _, code = env.run("schema")
	require.Equal(t, exitSuccess, code)
	var all map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &all))
	assert.ElementsMatch(t, reportNames(), keys(all))
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestMetricsFlag(t *testing.T) {
	env := newCLIEnv(t)
	save := env.writeSave(t, "yellow.sav", types.SaveTypeYellow, nil)

	_, stderr, code := env.run("--metrics", "party", save)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, stderr, "pkmn_refdb_lookups_total")

	_, stderr, code = env.run("party", save)
	require.Equal(t, exitSuccess, code)
	assert.NotContains(t, stderr, "pkmn_refdb_lookups_total")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitUserError, exitCode(errors.New("unknown flag")))
	assert.Equal(t, exitSysError, exitCode(systemErr(errors.New("disk full"))))
	assert.Equal(t, exitUserError, exitCode(systemErr(fmt.Errorf("write: %w", blob.ErrInvalidKey))))
	assert.Equal(t, exitUserError, exitCode(fmt.Errorf("box: %w", types.ErrOutOfRange)))
	assert.Nil(t, systemErr(nil))
}
