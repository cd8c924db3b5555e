// Package domain contains the core entities of the review scheduler:
// decks, cards, and the review quality scale. Entities validate
// themselves; scheduling arithmetic lives in the srs subpackage and
// never reaches into card content, which is opaque to the scheduler.
package domain
