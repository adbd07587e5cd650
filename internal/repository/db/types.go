package db

import "strings"

// DatabaseType represents supported database types
type DatabaseType string

const (
	SQLite     DatabaseType = "sqlite"
	MySQL      DatabaseType = "mysql"
	PostgreSQL DatabaseType = "postgres"
)

// ParseDatabaseType normalizes a configured engine name, empty means SQLite / Normalise le nom du moteur
func ParseDatabaseType(raw string) DatabaseType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "sqlite", "sqlite3":
		return SQLite
	case "postgres", "postgresql":
		return PostgreSQL
	case "mysql":
		return MySQL
	default:
		return DatabaseType(strings.ToLower(raw))
	}
}

// String returns string representation
func (dt DatabaseType) String() string {
	return string(dt)
}

// DriverName returns the database/sql driver name / Retourne le nom du driver database/sql
func (dt DatabaseType) DriverName() string {
	switch dt {
	case MySQL:
		return "mysql"
	case PostgreSQL:
		return "postgres"
	default:
		return "sqlite"
	}
}

// IsValid checks if database type is valid
func (dt DatabaseType) IsValid() bool {
	switch dt {
	case SQLite, MySQL, PostgreSQL:
		return true
	default:
		return false
	}
}
