package database

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Dialect captures the differences between the supported drivers that leak
// into hand-written SQL.
type Dialect struct {
	Name         string
	DriverName   string
	Numbered     bool // placeholders are $1, $2, ... instead of ?
	LastInsertID bool // sql.Result.LastInsertId is supported
}

var dialects = map[string]Dialect{
	DriverMySQL:    {Name: DriverMySQL, DriverName: "mysql", LastInsertID: true},
	DriverPostgres: {Name: DriverPostgres, DriverName: "postgres", Numbered: true},
	DriverSQLite:   {Name: DriverSQLite, DriverName: "sqlite", LastInsertID: true},
}

func DialectFor(driver string) (Dialect, error) {
	d, ok := dialects[driver]
	if !ok {
		return Dialect{}, fmt.Errorf("unsupported database driver %q", driver)
	}
	return d, nil
}

// Rebind rewrites '?' placeholders for drivers that number them. Queries in
// this repository never carry a literal '?' inside a string constant.
func (d Dialect) Rebind(query string) string {
	if !d.Numbered || !strings.Contains(query, "?") {
		return query
	}
	var sb strings.Builder
	sb.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			sb.WriteByte('$')
			sb.WriteString(strconv.Itoa(n))
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}
