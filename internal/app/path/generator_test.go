package path

import (
	"strings"
	"testing"
)

func TestGenerateModuleCountPerDuration(t *testing.T) {
	cases := []struct {
		duration string
		want     int
	}{
		{DurationShort, 4},
		{DurationMedium, 6},
		{DurationLong, 8},
		{"unknown", 6},
		{"", 6},
	}

	for _, tc := range cases {
		outline := Generate("Go", DifficultyBeginner, tc.duration)
		if got := len(outline.Modules); got != tc.want {
			t.Errorf("duration %q: module count = %d, want %d", tc.duration, got, tc.want)
		}
	}
}

func TestGenerateEmbedsTopic(t *testing.T) {
	outline := Generate("Distributed Systems", DifficultyIntermediate, DurationMedium)

	if !strings.Contains(outline.Title, "Distributed Systems") {
		t.Errorf("title %q does not mention the topic", outline.Title)
	}
	if !strings.Contains(outline.Description, "Distributed Systems") {
		t.Errorf("description %q does not mention the topic", outline.Description)
	}
	if !strings.Contains(outline.Description, DifficultyIntermediate) {
		t.Errorf("description %q does not mention the difficulty", outline.Description)
	}
	if !strings.Contains(outline.Modules[0], "Distributed Systems") {
		t.Errorf("first module %q does not mention the topic", outline.Modules[0])
	}
}

func TestGenerateDifficultyModulesAfterCoreConcepts(t *testing.T) {
	outline := Generate("Go", DifficultyAdvanced, DurationLong)

	if outline.Modules[2] != "Expert Techniques" || outline.Modules[3] != "Complex Scenarios" {
		t.Errorf("modules[2:4] = %v, want advanced inserts after core concepts", outline.Modules[2:4])
	}
}

func TestGenerateUnknownDifficultyFallsBack(t *testing.T) {
	got := Generate("Go", "impossible", DurationMedium)
	want := Generate("Go", DifficultyBeginner, DurationMedium)

	if len(got.Modules) != len(want.Modules) {
		t.Fatalf("module count = %d, want %d", len(got.Modules), len(want.Modules))
	}
	for i := range got.Modules {
		if got.Modules[i] != want.Modules[i] {
			t.Errorf("modules[%d] = %q, want %q", i, got.Modules[i], want.Modules[i])
		}
	}
	if !strings.Contains(got.Description, DifficultyBeginner) {
		t.Errorf("description %q does not reflect the fallback difficulty", got.Description)
	}
}

func TestValidDifficulty(t *testing.T) {
	for _, d := range []string{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced} {
		if !ValidDifficulty(d) {
			t.Errorf("ValidDifficulty(%q) = false, want true", d)
		}
	}
	if ValidDifficulty("expert") {
		t.Error("ValidDifficulty(\"expert\") = true, want false")
	}
}
