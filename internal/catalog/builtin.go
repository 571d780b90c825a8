package catalog

import (
	"cmp"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/omega-realm/mangos-admin/internal/database"
	"github.com/omega-realm/mangos-admin/internal/log"
	"github.com/omega-realm/mangos-admin/internal/models"
)

//go:embed data/*.json
var builtin embed.FS

const (
	SourceStatic = "static"
	SourceWorld  = "world"
)

// Set groups the catalogs the reference routes serve.
type Set struct {
	Spells   Catalog[models.Spell]
	Skills   Catalog[models.Skill]
	Factions Catalog[models.Faction]
	Commands []models.CommonCommand
}

// Load builds the reference catalogs. With SourceWorld the spell, skill and
// faction lookups read the world database; common commands are always the
// embedded list.
func Load(source string, world *database.DB) (*Set, error) {
	var commands []models.CommonCommand
	if err := decode("commands.json", &commands); err != nil {
		return nil, err
	}

	switch source {
	case SourceStatic, "":
		spells, err := StaticSpells()
		if err != nil {
			return nil, err
		}
		skills, err := StaticSkills()
		if err != nil {
			return nil, err
		}
		factions, err := StaticFactions()
		if err != nil {
			return nil, err
		}
		log.Info("[Catalog] Loaded %d spells, %d skills, %d factions from embedded tables",
			spells.Len(), skills.Len(), factions.Len())
		return &Set{Spells: spells, Skills: skills, Factions: factions, Commands: commands}, nil
	case SourceWorld:
		if world == nil {
			return nil, fmt.Errorf("reference source %q requires a world database", source)
		}
		log.Info("[Catalog] Serving spells, skills and factions from %s", world.Name())
		return &Set{
			Spells:   NewSQLCatalog(world, spellTable, true),
			Skills:   NewSQLCatalog(world, skillTable, true),
			Factions: NewSQLCatalog(world, factionTable, true),
			Commands: commands,
		}, nil
	default:
		return nil, fmt.Errorf("unknown reference source %q", source)
	}
}

func StaticSpells() (*Table[models.Spell], error) {
	var rows []models.Spell
	if err := decode("spells.json", &rows); err != nil {
		return nil, err
	}
	return NewTable(rows,
		func(s models.Spell) int { return s.ID },
		func(s models.Spell) []string { return []string{s.Name, s.Class, s.Rank} },
		func(a, b models.Spell) int {
			return cmpOr(compareFold(a.Name, b.Name), cmp.Compare(a.Level, b.Level))
		},
	), nil
}

func StaticSkills() (*Table[models.Skill], error) {
	var rows []models.Skill
	if err := decode("skills.json", &rows); err != nil {
		return nil, err
	}
	return NewTable(rows,
		func(s models.Skill) int { return s.ID },
		func(s models.Skill) []string { return []string{s.Name, s.Category} },
		func(a, b models.Skill) int { return compareFold(a.Name, b.Name) },
	), nil
}

func StaticFactions() (*Table[models.Faction], error) {
	var rows []models.Faction
	if err := decode("factions.json", &rows); err != nil {
		return nil, err
	}
	return NewTable(rows,
		func(f models.Faction) int { return f.ID },
		func(f models.Faction) []string { return []string{f.Name, f.Team} },
		func(a, b models.Faction) int { return compareFold(a.Name, b.Name) },
	), nil
}

func decode(name string, v any) error {
	b, err := builtin.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return nil
}

func compareFold(a, b string) int {
	return cmpOr(strings.Compare(strings.ToLower(a), strings.ToLower(b)), strings.Compare(a, b))
}

var spellTable = SQLTable[models.Spell]{
	Name:       "spell_template",
	Columns:    []string{"Id", "SpellName", "Rank1", "SpellLevel"},
	IDColumn:   "Id",
	NameColumn: "SpellName",
	OrderBy:    "SpellName, SpellLevel",
	Scan: func(s Scanner) (models.Spell, error) {
		var spell models.Spell
		err := s.Scan(&spell.ID, &spell.Name, &spell.Rank, &spell.Level)
		return spell, err
	},
}

var skillTable = SQLTable[models.Skill]{
	Name:       "skill_line",
	Columns:    []string{"Id", "Name", "Category"},
	IDColumn:   "Id",
	NameColumn: "Name",
	OrderBy:    "Name",
	Scan: func(s Scanner) (models.Skill, error) {
		var skill models.Skill
		err := s.Scan(&skill.ID, &skill.Name, &skill.Category)
		return skill, err
	},
}

var factionTable = SQLTable[models.Faction]{
	Name:       "faction",
	Columns:    []string{"Id", "Name", "Team"},
	IDColumn:   "Id",
	NameColumn: "Name",
	OrderBy:    "Name",
	Scan: func(s Scanner) (models.Faction, error) {
		var faction models.Faction
		err := s.Scan(&faction.ID, &faction.Name, &faction.Team)
		return faction, err
	},
}

// cmpOr returns a if it is non-zero, otherwise b. It matches cmp.Or, which
// requires Go 1.22.
func cmpOr(a, b int) int {
	if a != 0 {
		return a
	}
	return b
}
