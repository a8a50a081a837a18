package scenario

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// CardIDStrategy derives the id of a card about to be appended to cards.
type CardIDStrategy func(cards []ActionCard) string

// LetterCardIDs hands out the first unused letter A..Z while fewer than 26
// cards exist, then falls back to "X<n>" where n starts at the card count.
func LetterCardIDs(cards []ActionCard) string {
	used := make(map[string]struct{}, len(cards))
	for _, c := range cards {
		used[c.ID] = struct{}{}
	}
	if len(cards) < 26 {
		for r := 'A'; r <= 'Z'; r++ {
			if _, ok := used[string(r)]; !ok {
				return string(r)
			}
		}
	}
	for n := len(cards); ; n++ {
		id := fmt.Sprintf("X%d", n)
		if _, ok := used[id]; !ok {
			return id
		}
	}
}

// UUIDCardIDs returns a random UUID for every card.
func UUIDCardIDs(_ []ActionCard) string {
	return uuid.NewString()
}

// ValidateCardIDs reports the first id that appears more than once in the
// record's action cards.
func ValidateCardIDs(rec *Record) error {
	seen := make(map[string]struct{}, len(rec.ActionCards))
	for _, c := range rec.ActionCards {
		if _, dup := seen[c.ID]; dup {
			return fmt.Errorf("action card %q: %w", c.ID, ErrDuplicateID)
		}
		seen[c.ID] = struct{}{}
	}
	return nil
}

// NormalizeRecordID turns free-form input into a document key: lower case,
// trimmed, spaces replaced with underscores.
func NormalizeRecordID(raw string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_")
}
