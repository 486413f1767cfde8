package repository

import "embed"

// Migrations встроенные SQL миграции сервиса
//
//go:embed migrations/*.sql
var Migrations embed.FS

// MigrationsDir каталог миграций внутри Migrations
const MigrationsDir = "migrations"
