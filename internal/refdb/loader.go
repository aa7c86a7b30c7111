package refdb

import (
	"bufio"
	"bytes"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed data/*.jsonl
var dataset embed.FS

// jsonlTableMapping maps dataset files to their tables and column lists.
var jsonlTableMapping = []struct {
	file    string
	table   string
	columns []string
}{
	{"species.jsonl", "species", []string{
		"name", "national_dex", "generation", "gen1_index", "gen3_index", "types",
		"base_hp", "base_attack", "base_defense", "base_speed", "base_special",
		"base_sp_attack", "base_sp_defense", "gender_rate", "growth_rate",
		"base_friendship", "catch_rate", "abilities",
	}},
	{"species_forms.jsonl", "species_forms", []string{"species", "form", "generation", "ordinal"}},
	{"items.jsonl", "items", []string{
		"name", "generation", "category", "holdable",
		"gen1_index", "gen2_index", "gen3_index", "gcn_index", "gen4_index", "version_groups",
	}},
	{"moves.jsonl", "moves", []string{"id", "name", "type", "pp", "power", "generation"}},
	{"locations.jsonl", "locations", []string{"name", "gen2_index", "gen3_index", "gcn_index", "gen4_index"}},
	{"pockets.jsonl", "pockets", []string{"version_group", "name", "ordinal", "capacity", "kind"}},
	{"pocket_categories.jsonl", "pocket_categories", []string{"version_group", "pocket", "category"}},
}

// loadDataset reads every dataset file from fsys and inserts its records.
// Loading is transactional: all files load or the database stays empty.
// Malformed lines are skipped and unknown fields are ignored.
func loadDataset(db *sql.DB, d Dialect, fsys fs.FS) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning load transaction: %w", err)
	}
	defer tx.Rollback()

	for _, mapping := range jsonlTableMapping {
		records, err := readJSONL(fsys, mapping.file)
		if err != nil {
			return fmt.Errorf("reading %s: %w", mapping.file, err)
		}
		if len(records) == 0 {
			continue
		}
		if err := insertRecords(tx, d, mapping.table, mapping.columns, records); err != nil {
			return fmt.Errorf("loading %s into %s: %w", mapping.file, mapping.table, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing load transaction: %w", err)
	}
	return nil
}

// readJSONL reads a JSONL file and returns each non-empty, parseable line.
func readJSONL(fsys fs.FS, name string) ([]json.RawMessage, error) {
	f, err := fsys.Open(path.Join("data", name))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer f.Close()

	var records []json.RawMessage
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || !json.Valid(line) {
			continue
		}
		cp := make([]byte, len(line))
		copy(cp, line)
		records = append(records, json.RawMessage(cp))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scanning %s: %w", name, err)
	}
	return records, nil
}

// insertRecords inserts parsed JSONL records into a table. Only the listed
// columns are extracted. Arrays are stored as JSON text, booleans as 0/1 and
// integral numbers as int64 so that both drivers accept them.
func insertRecords(tx *sql.Tx, d Dialect, table string, columns []string, records []json.RawMessage) error {
	placeholders := make([]string, len(columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	insertSQL := d.Rebind(fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		table,
		strings.Join(columns, ", "),
		strings.Join(placeholders, ", "),
	))

	stmt, err := tx.Prepare(insertSQL)
	if err != nil {
		return fmt.Errorf("preparing insert for %s: %w", table, err)
	}
	defer stmt.Close()

	for _, rec := range records {
		var obj map[string]any
		dec := json.NewDecoder(bytes.NewReader(rec))
		dec.UseNumber()
		if err := dec.Decode(&obj); err != nil {
			continue
		}

		args := make([]any, len(columns))
		for i, col := range columns {
			args[i] = columnValue(obj[col])
		}
		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("inserting into %s: %w", table, err)
		}
	}
	return nil
}

func columnValue(val any) any {
	switch v := val.(type) {
	case nil:
		return nil
	case []any, map[string]any:
		b, err := json.Marshal(v)
		if err != nil {
			return nil
		}
		return string(b)
	case bool:
		if v {
			return int64(1)
		}
		return int64(0)
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
		f, _ := v.Float64()
		return f
	default:
		return v
	}
}
