// Package testinfra holds test doubles and container helpers shared by the
// package tests. The in-memory store mirrors the PostgreSQL repositories'
// error behaviour; the Postgres helper is only built with the integration tag.
package testinfra
