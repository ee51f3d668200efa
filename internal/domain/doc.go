// Package domain contains the core concepts of the conversion service.
// Keep this package free of transport (HTTP) and infrastructure (Redis/Postgres) concerns.
package domain
