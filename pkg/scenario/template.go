package scenario

import "fmt"

// Template produces the default shapes used when new entries are created.
type Template interface {
	NewRecord(title string) *Record
	NewAdvisor() Advisor
	NewActionCard(id string) ActionCard
}

// DefaultTemplate is the stock template used by the editor.
type DefaultTemplate struct{}

// NewRecord returns a record pre-filled with two advisors and two action cards.
func (DefaultTemplate) NewRecord(title string) *Record {
	return &Record{
		Title: title,
		Icon:  "✨",
		Story: "Write the crisis story here. **Mission**: describe the player's task here.",
		Advisors: []Advisor{
			{Name: "Advisor 1 (e.g. Security)", Text: "Write the advisor's opinion here."},
			{Name: "Advisor 2 (e.g. Legal)", Text: "Write the advisor's opinion here."},
		},
		ActionCards: []ActionCard{
			{
				ID:                 "A",
				Name:               "Action card A",
				Cost:               30,
				HRCost:             10,
				Speed:              SpeedFast,
				SecurityEffect:     40,
				FreedomCost:        30,
				SideEffectRisk:     0.4,
				SafeguardReduction: 0.5,
				Tooltip:            "Fast but risky option.",
			},
			{
				ID:                 "B",
				Name:               "Action card B",
				Cost:               20,
				HRCost:             15,
				Speed:              SpeedMedium,
				SecurityEffect:     30,
				FreedomCost:        15,
				SideEffectRisk:     0.2,
				SafeguardReduction: 0.7,
				Tooltip:            "Balanced option.",
			},
		},
		ImmediateText: "Write the immediate effect here. Use {} to show the chosen action.",
		DelayedText:   "Write the delayed effect here.",
	}
}

// NewAdvisor returns the placeholder advisor appended by the editor.
func (DefaultTemplate) NewAdvisor() Advisor {
	return Advisor{Name: "New advisor"}
}

// NewActionCard returns a card with the default balance values.
func (DefaultTemplate) NewActionCard(id string) ActionCard {
	return ActionCard{
		ID:                 id,
		Name:               fmt.Sprintf("Action card %s", id),
		Cost:               20,
		HRCost:             10,
		Speed:              SpeedMedium,
		SecurityEffect:     20,
		FreedomCost:        10,
		SideEffectRisk:     0.2,
		SafeguardReduction: 0.7,
		Tooltip:            "New action card description.",
	}
}
