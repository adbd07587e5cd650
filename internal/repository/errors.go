package repository

import (
	"github.com/Olprog59/go-clientbook/internal/repository/db"
	"github.com/Olprog59/go-clientbook/internal/repository/sqlite"
)

// Re-export common errors for convenience
var (
	// Common database errors from db package
	ErrNoRecord      = db.ErrNoRecord
	ErrNoData        = db.ErrNoData
	ErrUnknownColumn = db.ErrUnknownColumn
	ErrNoSuchTable   = db.ErrNoSuchTable

	// SQLite-specific errors from sqlite package
	ErrDup    = sqlite.ErrDup
	ErrBusy   = sqlite.ErrBusy
	ErrLocked = sqlite.ErrLocked
)
