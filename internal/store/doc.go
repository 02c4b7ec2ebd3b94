// Package store defines the persistence interfaces consumed by the rest
// of the application, along with the sentinel errors shared by all store
// implementations. Concrete implementations live under
// internal/platform/postgres.
package store
