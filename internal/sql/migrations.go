package sql

import "embed"

// Migrations holds the warehouse DDL applied by db.ApplyMigrations.
//
//go:embed migrations/*.sql
var Migrations embed.FS
