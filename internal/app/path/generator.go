/*
Package path generates deterministic learning-path outlines from a topic,
difficulty, and duration. The result is persisted per user by the caller.
*/
package path

import "fmt"

// Difficulty levels accepted by the generator.
const (
	DifficultyBeginner     = "beginner"
	DifficultyIntermediate = "intermediate"
	DifficultyAdvanced     = "advanced"
)

// Duration presets controlling how many modules the outline keeps.
const (
	DurationShort  = "short"
	DurationMedium = "medium"
	DurationLong   = "long"
)

// Outline is a generated learning path before persistence.
type Outline struct {
	Title       string
	Description string
	Modules     []string
}

var difficultyModifiers = map[string][]string{
	DifficultyBeginner:     {"Fundamentals", "Basic Examples", "Getting Started"},
	DifficultyIntermediate: {"In-depth Analysis", "Case Studies", "Best Practices"},
	DifficultyAdvanced:     {"Expert Techniques", "Complex Scenarios", "Research Topics"},
}

// ValidDifficulty reports whether the difficulty is one of the accepted levels.
func ValidDifficulty(difficulty string) bool {
	_, ok := difficultyModifiers[difficulty]
	return ok
}

// Generate builds an outline for the topic. Unknown difficulty falls back to
// beginner; duration selects 4 (short), 6 (medium), or 8 (long) modules.
func Generate(topic, difficulty, duration string) Outline {
	if !ValidDifficulty(difficulty) {
		difficulty = DifficultyBeginner
	}

	modules := []string{
		fmt.Sprintf("Introduction to %s", topic),
		fmt.Sprintf("Core Concepts of %s", topic),
		"Practical Applications",
		"Advanced Techniques",
		"Real-world Projects",
		"Assessment and Review",
	}

	// Difficulty-specific modules slot in after the core concepts.
	extra := difficultyModifiers[difficulty][:2]
	modules = append(modules[:2], append(append([]string{}, extra...), modules[2:]...)...)

	limit := 6
	switch duration {
	case DurationShort:
		limit = 4
	case DurationLong:
		limit = 8
	}
	if limit > len(modules) {
		limit = len(modules)
	}

	return Outline{
		Title:       fmt.Sprintf("%s Learning Path", topic),
		Description: fmt.Sprintf("Comprehensive %s-level course on %s", difficulty, topic),
		Modules:     modules[:limit],
	}
}
