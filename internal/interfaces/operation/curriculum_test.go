// Package operation
package operation

import (
	"math"
	"testing"
)

func floatEqual(f1, f2 float64) bool {
	return math.Abs(f1-f2) < 0.000001
}

func TestTopicCategoryOf(t *testing.T) {
	tests := []struct {
		key      string
		category TopicCategory
		ok       bool
	}{
		{"FLIGHT_PLANNING", TheoryTopic, true},
		{"LOST_COMMS_PROCEDURES", TheoryTopic, true},
		{"VFR_TRAFFIC_PATTERN", PracticeTopic, true},
		{"CROSS_COUNTRY_FLIGHT", PracticeTopic, true},
		{"flight_planning", "", false},
		{"AEROBATICS", "", false},
		{"", "", false},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		category, ok := TopicCategoryOf(test.key)
		if ok != test.ok || category != test.category {
			fail++
			t.Errorf("TopicCategoryOf(%q) = (%q, %v); expected (%q, %v)", test.key, category, ok, test.category, test.ok)
			continue
		}
		pass++
	}
	t.Logf("TestTopicCategoryOf: %d pass, %d fail", pass, fail)
}

func TestCurriculumShape(t *testing.T) {
	theory := 0
	practice := 0
	for _, topic := range Curriculum {
		switch topic.Category {
		case TheoryTopic:
			theory++
		case PracticeTopic:
			practice++
		default:
			t.Errorf("topic %q has unknown category %q", topic.Key, topic.Category)
		}
	}
	if theory != 6 || practice != 9 {
		t.Errorf("curriculum has %d theory and %d practice topics; expected 6 and 9", theory, practice)
	}
}

func TestNormalizeTopic(t *testing.T) {
	tests := []struct {
		topic            TrainingSessionTopic
		expectedChecked  bool
		expectedPractice bool
		expectedMode     string
	}{
		{TrainingSessionTopic{Topic: "FLIGHT_PLANNING", TheoryCovered: true}, true, false, "theory"},
		{TrainingSessionTopic{Topic: "FLIGHT_PLANNING", TheoryCovered: true, PracticeCovered: true}, true, false, "theory"},
		{TrainingSessionTopic{Topic: "FLIGHT_PLANNING", PracticeCovered: true}, false, false, ""},
		{TrainingSessionTopic{Topic: "ILS_APPROACH", PracticeCovered: true}, true, true, "practice"},
		{TrainingSessionTopic{Topic: "ILS_APPROACH", TheoryCovered: true, PracticeCovered: true}, true, true, "both"},
		{TrainingSessionTopic{Topic: "ILS_APPROACH"}, false, false, ""},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		topic := test.topic
		NormalizeTopic(&topic)
		if topic.Checked != test.expectedChecked || topic.PracticeCovered != test.expectedPractice || topic.CoverageMode != test.expectedMode {
			fail++
			t.Errorf("NormalizeTopic(%q theory=%v practice=%v) = (checked=%v, practice=%v, mode=%q); expected (%v, %v, %q)",
				test.topic.Topic, test.topic.TheoryCovered, test.topic.PracticeCovered,
				topic.Checked, topic.PracticeCovered, topic.CoverageMode,
				test.expectedChecked, test.expectedPractice, test.expectedMode)
			continue
		}
		pass++
	}
	t.Logf("TestNormalizeTopic: %d pass, %d fail", pass, fail)
}

func TestAggregateCoverageEmpty(t *testing.T) {
	topics, earned, possible := AggregateCoverage(nil)
	if len(topics) != len(Curriculum) {
		t.Errorf("AggregateCoverage(nil) returned %d topics; expected %d", len(topics), len(Curriculum))
	}
	if !floatEqual(earned, 0) {
		t.Errorf("AggregateCoverage(nil) earned = %v; expected 0", earned)
	}
	if !floatEqual(possible, 15) {
		t.Errorf("AggregateCoverage(nil) possible = %v; expected 15", possible)
	}
}

func TestAggregateCoverage(t *testing.T) {
	sessions := []*TrainingSession{
		{Topics: []*TrainingSessionTopic{
			{Topic: "FLIGHT_PLANNING", TheoryCovered: true},
			{Topic: "ILS_APPROACH", TheoryCovered: true},
		}},
		{Topics: []*TrainingSessionTopic{
			{Topic: "ILS_APPROACH", PracticeCovered: true},
			{Topic: "VFR_NAVIGATION", PracticeCovered: true},
			{Topic: "UNKNOWN_TOPIC", TheoryCovered: true},
		}},
	}
	topics, earned, possible := AggregateCoverage(sessions)
	if !floatEqual(possible, 15) {
		t.Errorf("possible = %v; expected 15", possible)
	}
	// FLIGHT_PLANNING 1.0, ILS_APPROACH 0.5+0.5 merged across sessions, VFR_NAVIGATION 0.5
	if !floatEqual(earned, 2.5) {
		t.Errorf("earned = %v; expected 2.5", earned)
	}
	byKey := make(map[string]*TopicProgress, len(topics))
	for _, progress := range topics {
		byKey[progress.Topic] = progress
	}
	if _, exists := byKey["UNKNOWN_TOPIC"]; exists {
		t.Errorf("unknown topic keys must not leak into the aggregate")
	}
	tests := []struct {
		key      string
		theory   bool
		practice bool
		points   float64
	}{
		{"FLIGHT_PLANNING", true, false, 1},
		{"ILS_APPROACH", true, true, 1},
		{"VFR_NAVIGATION", false, true, 0.5},
		{"HOLDING_PROCEDURES", false, false, 0},
	}
	pass := 0
	fail := 0
	for _, test := range tests {
		progress, exists := byKey[test.key]
		if !exists {
			fail++
			t.Errorf("topic %q missing from aggregate", test.key)
			continue
		}
		if progress.TheoryCovered != test.theory || progress.PracticeCovered != test.practice || !floatEqual(progress.Points, test.points) {
			fail++
			t.Errorf("topic %q = (theory=%v, practice=%v, points=%v); expected (%v, %v, %v)",
				test.key, progress.TheoryCovered, progress.PracticeCovered, progress.Points,
				test.theory, test.practice, test.points)
			continue
		}
		pass++
	}
	t.Logf("TestAggregateCoverage: %d pass, %d fail", pass, fail)
}
