package db

import "errors"

// Common database errors
var (
	ErrNoRecord      = errors.New("no matching record found")
	ErrNoData        = errors.New("no data provided")
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoSuchTable   = errors.New("table has no columns or does not exist")
)
