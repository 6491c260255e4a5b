// Package pkgpostgres opens and health-checks the PostgreSQL connection pool.
package pkgpostgres
