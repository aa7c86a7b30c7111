package refdb

import (
	"database/sql"
	"fmt"
	"io/fs"

	"github.com/mesh-intelligence/pkmn/pkg/calc"
)

// seed creates the schema and, when the species table is empty (first run),
// loads the dataset and the experience curves. Seeding an already populated
// database is a no-op.
func seed(db *sql.DB, d Dialect, fsys fs.FS) (bool, error) {
	for _, stmt := range schemaDDL {
		if _, err := db.Exec(stmt); err != nil {
			return false, fmt.Errorf("creating schema: %w", err)
		}
	}
	for _, stmt := range indexDDL {
		if _, err := db.Exec(stmt); err != nil {
			return false, fmt.Errorf("creating index: %w", err)
		}
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM species").Scan(&count); err != nil {
		return false, fmt.Errorf("counting species: %w", err)
	}
	if count > 0 {
		return false, nil
	}

	if err := loadDataset(db, d, fsys); err != nil {
		return false, err
	}
	if err := seedExperience(db, d); err != nil {
		return false, err
	}
	return true, nil
}

// seedExperience fills the experience table for every growth rate and the
// levels 1 through 100.
func seedExperience(db *sql.DB, d Dialect) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("beginning seed transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(d.Rebind("INSERT INTO experience (growth_rate, level, experience) VALUES (?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("preparing experience insert: %w", err)
	}
	defer stmt.Close()

	for _, rate := range calc.GrowthRates {
		for level := 1; level <= 100; level++ {
			exp, err := calc.Experience(rate, level)
			if err != nil {
				return fmt.Errorf("computing %s level %d: %w", rate, level, err)
			}
			if _, err := stmt.Exec(rate, level, exp); err != nil {
				return fmt.Errorf("seeding %s level %d: %w", rate, level, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing seed transaction: %w", err)
	}
	return nil
}
