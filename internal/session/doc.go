// Package session orchestrates study sessions: it selects the due-card
// queue for a deck, feeds learner ratings through the scheduling engine,
// persists each rescheduled card as it is resolved, and aggregates session
// statistics. The clock, ratings source, and card persistence are injected
// collaborators so the whole flow stays deterministic under test.
package session
