package database

import (
	"context"
	"fmt"

	"github.com/omega-realm/mangos-admin/internal/log"
)

// The server builds own the real schemas. These are the subsets the API
// reads and writes, used to bootstrap local SQLite databases.
var (
	realmdSchema = []string{
		`CREATE TABLE IF NOT EXISTS account (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL UNIQUE COLLATE NOCASE,
			sha_pass_hash TEXT NOT NULL DEFAULT '',
			gmlevel INTEGER NOT NULL DEFAULT 0,
			email TEXT DEFAULT '',
			joindate DATETIME,
			last_login DATETIME,
			locked INTEGER NOT NULL DEFAULT 0,
			expansion INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS account_banned (
			id INTEGER NOT NULL,
			bandate INTEGER NOT NULL,
			unbandate INTEGER NOT NULL,
			bannedby TEXT NOT NULL,
			banreason TEXT NOT NULL,
			active INTEGER NOT NULL DEFAULT 1,
			PRIMARY KEY (id, bandate)
		)`,
		`CREATE TABLE IF NOT EXISTS realmlist (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '127.0.0.1',
			port INTEGER NOT NULL DEFAULT 8085,
			icon INTEGER NOT NULL DEFAULT 0,
			realmflags INTEGER NOT NULL DEFAULT 2,
			timezone INTEGER NOT NULL DEFAULT 0,
			allowedSecurityLevel INTEGER NOT NULL DEFAULT 0,
			population REAL NOT NULL DEFAULT 0,
			realmbuilds TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_banned_id ON account_banned(id)`,
	}

	charactersSchema = []string{
		`CREATE TABLE IF NOT EXISTS characters (
			guid INTEGER PRIMARY KEY,
			account INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL DEFAULT '',
			race INTEGER NOT NULL DEFAULT 0,
			class INTEGER NOT NULL DEFAULT 0,
			level INTEGER NOT NULL DEFAULT 0,
			money INTEGER NOT NULL DEFAULT 0,
			totaltime INTEGER NOT NULL DEFAULT 0,
			totalHonorPoints REAL NOT NULL DEFAULT 0,
			online INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS character_inventory (
			guid INTEGER NOT NULL,
			bag INTEGER NOT NULL DEFAULT 0,
			slot INTEGER NOT NULL DEFAULT 0,
			item INTEGER NOT NULL,
			item_template INTEGER NOT NULL DEFAULT 0,
			PRIMARY KEY (item)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_characters_account ON characters(account)`,
	}

	worldSchema = []string{
		`CREATE TABLE IF NOT EXISTS item_template (
			entry INTEGER PRIMARY KEY,
			class INTEGER NOT NULL DEFAULT 0,
			subclass INTEGER NOT NULL DEFAULT 0,
			name TEXT NOT NULL DEFAULT '',
			Quality INTEGER NOT NULL DEFAULT 0,
			ItemLevel INTEGER NOT NULL DEFAULT 0,
			RequiredLevel INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS quest_template (
			entry INTEGER PRIMARY KEY,
			Title TEXT NOT NULL DEFAULT '',
			QuestLevel INTEGER NOT NULL DEFAULT 0,
			MinLevel INTEGER NOT NULL DEFAULT 0,
			Type INTEGER NOT NULL DEFAULT 0,
			SuggestedPlayers INTEGER NOT NULL DEFAULT 0,
			Details TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE TABLE IF NOT EXISTS command (
			name TEXT PRIMARY KEY,
			security INTEGER NOT NULL DEFAULT 0,
			help TEXT NOT NULL DEFAULT ''
		)`,
	}
)

// InitSchema creates the bootstrap tables on SQLite pools. The MySQL and
// PostgreSQL schemas are managed by the server build and are never touched.
func (p *Pools) InitSchema(ctx context.Context) error {
	if p.Realmd.dialect.Name != DriverSQLite {
		return fmt.Errorf("schema bootstrap is only supported for %s, not %s", DriverSQLite, p.Realmd.dialect.Name)
	}
	for _, target := range []struct {
		db         *DB
		statements []string
	}{
		{p.Realmd, realmdSchema},
		{p.Characters, charactersSchema},
		{p.World, worldSchema},
	} {
		for _, stmt := range target.statements {
			if _, err := target.db.ExecContext(ctx, stmt); err != nil {
				return fmt.Errorf("failed to initialize schema for %s: %w", target.db.name, err)
			}
		}
	}
	log.Info("[Database] Bootstrap schema initialized")
	return nil
}
