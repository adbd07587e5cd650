// Package migrations embeds the SQL migrations creating the clients table,
// one directory per database engine.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql mysql/*.sql
var FS embed.FS
