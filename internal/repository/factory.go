package repository

import (
	"github.com/Olprog59/go-clientbook/internal/ports"
	"github.com/jmoiron/sqlx"
)

// DatabaseFactory must be implemented by each database package / Doit être implémenté par chaque package de BD
// This interface ensures compile-time safety: if you add a new repository,
// you MUST implement it in all database packages (sqlite, mysql, postgres)
// Cette interface garantit la sécurité à la compilation : si tu ajoutes un nouveau repository,
// tu DOIS l'implémenter dans tous les packages de BD (sqlite, mysql, postgres)
type DatabaseFactory interface {
	// NewClientRepository creates clients repository / Crée le repository clients
	NewClientRepository(db *sqlx.DB, table, idColumn string) ports.ClientRepository
}
