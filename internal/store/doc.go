// Package store defines the persistence interfaces the review core depends
// on. The core never talks to a database directly; concrete
// implementations live under internal/platform and are injected at
// startup.
package store
