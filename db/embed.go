// Package db embeds the SQL shipped with the service: the schema migration
// applied at startup and the seed data used by cmd/seed-db.
package db

import _ "embed"

// Schema holds the DDL for orders, order lines, price lists, catalog items,
// customers and API keys. Statements are idempotent (CREATE ... IF NOT
// EXISTS) so reapplying on boot is safe.
//
//go:embed migrations/001_schema.sql
var Schema string
