package progression

import "testing"

func TestClanRankFor(t *testing.T) {
	tests := []struct {
		totalXP int64
		want    string
	}{
		{0, "Beginner"},
		{9_999, "Beginner"},
		{10_000, "Bronze"},
		{49_999, "Bronze"},
		{50_000, "Silver"},
		{99_999, "Silver"},
		{100_000, "Gold"},
		{499_999, "Gold"},
		{500_000, "Diamond"},
		{999_999, "Diamond"},
		{1_000_000, "Legendary"},
		{5_000_000, "Legendary"},
	}

	for _, tt := range tests {
		if got := ClanRankFor(tt.totalXP); got.Name != tt.want {
			t.Errorf("ClanRankFor(%d) = %s, want %s", tt.totalXP, got.Name, tt.want)
		}
	}
}

func TestParseRequirementKind(t *testing.T) {
	tests := []struct {
		in      string
		want    RequirementKind
		wantErr bool
	}{
		{"messages", RequireMessages, false},
		{"xp", RequireXP, false},
		{"coins", RequireCoins, false},
		{"level", RequireLevel, false},
		{"streak", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseRequirementKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRequirementKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseRequirementKind(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestRequirementKind_RoundTrip(t *testing.T) {
	kinds := []RequirementKind{RequireMessages, RequireXP, RequireCoins, RequireLevel}
	for _, kind := range kinds {
		parsed, err := ParseRequirementKind(kind.String())
		if err != nil {
			t.Fatalf("ParseRequirementKind(%s): %v", kind, err)
		}
		if parsed != kind {
			t.Errorf("round trip of %s produced %s", kind, parsed)
		}
	}
}

func TestQuestTemplates(t *testing.T) {
	templates := QuestTemplates()
	if len(templates) != 3 {
		t.Fatalf("expected 3 quest templates, got %d", len(templates))
	}

	byKind := make(map[QuestKind]QuestTemplate, len(templates))
	for _, tmpl := range templates {
		byKind[tmpl.Kind] = tmpl
	}

	if tmpl := byKind[QuestMessages]; tmpl.Target != 50 || tmpl.RewardXP != 100 || tmpl.RewardCoins != 50 {
		t.Errorf("messages template = %+v", tmpl)
	}
	if tmpl := byKind[QuestXPGain]; tmpl.Target != 100 || tmpl.RewardXP != 150 || tmpl.RewardCoins != 75 {
		t.Errorf("xp_gain template = %+v", tmpl)
	}
	if tmpl := byKind[QuestCoinsGain]; tmpl.Target != 50 || tmpl.RewardXP != 75 || tmpl.RewardCoins != 100 {
		t.Errorf("coins_gain template = %+v", tmpl)
	}
}
