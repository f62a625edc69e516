package types

import "testing"

func TestEventTypeValid(t *testing.T) {
	valid := []EventType{
		EventTaskStart, EventTaskComplete, EventOverdue, EventBreakStart,
		EventBreakEnd, EventHydrate, EventSleepLog, EventFocusStart,
		EventFocusTick, EventShopPurchase, EventAppOpen, EventAppIdle,
		EventEmotionText, EventEmotionVoice,
	}
	for _, v := range valid {
		if !v.Valid() {
			t.Fatalf("%q should be valid", v)
		}
	}
	for _, v := range []EventType{"", "nap", "TASK_START", "task start"} {
		if v.Valid() {
			t.Fatalf("%q should be invalid", v)
		}
	}
}

func TestMoodLabelValid(t *testing.T) {
	for _, v := range []MoodLabel{MoodPositive, MoodNeutral, MoodNegative, MoodAnxious, MoodTired} {
		if !v.Valid() {
			t.Fatalf("%q should be valid", v)
		}
	}
	for _, v := range []MoodLabel{"", "meh", "Positive"} {
		if v.Valid() {
			t.Fatalf("%q should be invalid", v)
		}
	}
}

func TestMoodSourceValid(t *testing.T) {
	for _, v := range []MoodSource{MoodSourceUserText, MoodSourceUserSlider, MoodSourceVoiceInfer, MoodSourceTextInfer} {
		if !v.Valid() {
			t.Fatalf("%q should be valid", v)
		}
	}
	if MoodSource("guess").Valid() {
		t.Fatal("unknown source should be invalid")
	}
}

func TestTaskCategoryValid(t *testing.T) {
	for _, v := range []TaskCategory{CategoryAcademic, CategoryPersonal, CategoryPrivate} {
		if !v.Valid() {
			t.Fatalf("%q should be valid", v)
		}
	}
	// Category matching is exact, including case.
	for _, v := range []TaskCategory{"", "academic", "Chores"} {
		if v.Valid() {
			t.Fatalf("%q should be invalid", v)
		}
	}
}

func TestRiskWindowValid(t *testing.T) {
	for _, v := range []RiskWindow{WindowDaily, WindowRolling72} {
		if !v.Valid() {
			t.Fatalf("%q should be valid", v)
		}
	}
	if RiskWindow("weekly").Valid() {
		t.Fatal("unknown window should be invalid")
	}
}

func TestNegativeMoodLabels(t *testing.T) {
	seen := map[MoodLabel]bool{}
	for _, l := range NegativeMoodLabels {
		if !l.Valid() {
			t.Fatalf("negative label %q is not a known label", l)
		}
		seen[l] = true
	}
	for _, l := range []MoodLabel{MoodNegative, MoodAnxious, MoodTired} {
		if !seen[l] {
			t.Fatalf("%q missing from negative labels", l)
		}
	}
	if seen[MoodPositive] || seen[MoodNeutral] {
		t.Fatal("positive/neutral must not count as negative")
	}
}
