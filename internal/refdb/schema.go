package refdb

// Schema DDL for the Reference Database. The statements are valid for both
// SQLite and Postgres; list-valued columns hold JSON arrays as TEXT and
// booleans are stored as INTEGER.
const (
	createSpecies = `CREATE TABLE IF NOT EXISTS species (
    name TEXT PRIMARY KEY,
    national_dex INTEGER NOT NULL UNIQUE,
    generation INTEGER NOT NULL,
    gen1_index INTEGER,
    gen3_index INTEGER,
    types TEXT NOT NULL,
    base_hp INTEGER NOT NULL,
    base_attack INTEGER NOT NULL,
    base_defense INTEGER NOT NULL,
    base_speed INTEGER NOT NULL,
    base_special INTEGER NOT NULL,
    base_sp_attack INTEGER NOT NULL,
    base_sp_defense INTEGER NOT NULL,
    gender_rate INTEGER NOT NULL,
    growth_rate TEXT NOT NULL,
    base_friendship INTEGER NOT NULL,
    catch_rate INTEGER NOT NULL,
    abilities TEXT
);`

	createSpeciesForms = `CREATE TABLE IF NOT EXISTS species_forms (
    species TEXT NOT NULL,
    form TEXT NOT NULL,
    generation INTEGER NOT NULL,
    ordinal INTEGER NOT NULL,
    PRIMARY KEY (species, form)
);`

	createItems = `CREATE TABLE IF NOT EXISTS items (
    name TEXT PRIMARY KEY,
    generation INTEGER NOT NULL,
    category TEXT NOT NULL,
    holdable INTEGER NOT NULL,
    gen1_index INTEGER,
    gen2_index INTEGER,
    gen3_index INTEGER,
    gcn_index INTEGER,
    gen4_index INTEGER,
    version_groups TEXT
);`

	createMoves = `CREATE TABLE IF NOT EXISTS moves (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    type TEXT NOT NULL,
    pp INTEGER NOT NULL,
    power INTEGER NOT NULL,
    generation INTEGER NOT NULL
);`

	createLocations = `CREATE TABLE IF NOT EXISTS locations (
    name TEXT PRIMARY KEY,
    gen2_index INTEGER,
    gen3_index INTEGER,
    gcn_index INTEGER,
    gen4_index INTEGER
);`

	createPockets = `CREATE TABLE IF NOT EXISTS pockets (
    version_group TEXT NOT NULL,
    name TEXT NOT NULL,
    ordinal INTEGER NOT NULL,
    capacity INTEGER NOT NULL,
    kind TEXT NOT NULL,
    PRIMARY KEY (version_group, name)
);`

	createPocketCategories = `CREATE TABLE IF NOT EXISTS pocket_categories (
    version_group TEXT NOT NULL,
    pocket TEXT NOT NULL,
    category TEXT NOT NULL,
    PRIMARY KEY (version_group, category)
);`

	createExperience = `CREATE TABLE IF NOT EXISTS experience (
    growth_rate TEXT NOT NULL,
    level INTEGER NOT NULL,
    experience INTEGER NOT NULL,
    PRIMARY KEY (growth_rate, level)
);`
)

// Index DDL for per-platform lookups.
const (
	idxSpeciesGen1   = `CREATE INDEX IF NOT EXISTS idx_species_gen1 ON species(gen1_index);`
	idxSpeciesGen3   = `CREATE INDEX IF NOT EXISTS idx_species_gen3 ON species(gen3_index);`
	idxItemsGen1     = `CREATE INDEX IF NOT EXISTS idx_items_gen1 ON items(gen1_index);`
	idxItemsGen2     = `CREATE INDEX IF NOT EXISTS idx_items_gen2 ON items(gen2_index);`
	idxItemsGen3     = `CREATE INDEX IF NOT EXISTS idx_items_gen3 ON items(gen3_index);`
	idxItemsGCN      = `CREATE INDEX IF NOT EXISTS idx_items_gcn ON items(gcn_index);`
	idxItemsGen4     = `CREATE INDEX IF NOT EXISTS idx_items_gen4 ON items(gen4_index);`
	idxItemsCategory = `CREATE INDEX IF NOT EXISTS idx_items_category ON items(category);`
)

// schemaDDL lists all CREATE TABLE statements.
var schemaDDL = []string{
	createSpecies,
	createSpeciesForms,
	createItems,
	createMoves,
	createLocations,
	createPockets,
	createPocketCategories,
	createExperience,
}

// indexDDL lists all CREATE INDEX statements.
var indexDDL = []string{
	idxSpeciesGen1,
	idxSpeciesGen3,
	idxItemsGen1,
	idxItemsGen2,
	idxItemsGen3,
	idxItemsGCN,
	idxItemsGen4,
	idxItemsCategory,
}
