// Package operation
package operation

type TopicCategory string

const (
	TheoryTopic   TopicCategory = "THEORY"
	PracticeTopic TopicCategory = "PRACTICE"
)

type CurriculumTopic struct {
	Key      string        `json:"key"`
	Category TopicCategory `json:"category"`
}

// Curriculum is the fixed lesson catalogue sessions log against. Order
// matters for display; the keys are stable identifiers in the database.
var Curriculum = []CurriculumTopic{
	{Key: "FLIGHT_PLANNING", Category: TheoryTopic},
	{Key: "CHART_READING", Category: TheoryTopic},
	{Key: "ATC_PHRASEOLOGY", Category: TheoryTopic},
	{Key: "AIRSPACE_STRUCTURE", Category: TheoryTopic},
	{Key: "TRANSPONDER_PROCEDURES", Category: TheoryTopic},
	{Key: "LOST_COMMS_PROCEDURES", Category: TheoryTopic},
	{Key: "VFR_TRAFFIC_PATTERN", Category: PracticeTopic},
	{Key: "VFR_NAVIGATION", Category: PracticeTopic},
	{Key: "IFR_CLEARANCE_DEPARTURE", Category: PracticeTopic},
	{Key: "IFR_ENROUTE", Category: PracticeTopic},
	{Key: "HOLDING_PROCEDURES", Category: PracticeTopic},
	{Key: "ILS_APPROACH", Category: PracticeTopic},
	{Key: "RNP_APPROACH", Category: PracticeTopic},
	{Key: "GO_AROUND_MISSED", Category: PracticeTopic},
	{Key: "CROSS_COUNTRY_FLIGHT", Category: PracticeTopic},
}

var curriculumIndex = func() map[string]TopicCategory {
	index := make(map[string]TopicCategory, len(Curriculum))
	for _, topic := range Curriculum {
		index[topic.Key] = topic.Category
	}
	return index
}()

// TopicCategoryOf resolves a topic key against the curriculum. ok is
// false for keys outside the catalogue.
func TopicCategoryOf(key string) (category TopicCategory, ok bool) {
	category, ok = curriculumIndex[key]
	return
}

// NormalizeTopic enforces the topic coverage invariants in one place:
// checked mirrors theory||practice, and THEORY topics never carry a
// practice mark no matter what the client sent.
func NormalizeTopic(topic *TrainingSessionTopic) {
	if category, ok := TopicCategoryOf(topic.Topic); ok && category == TheoryTopic {
		topic.PracticeCovered = false
	}
	topic.Checked = topic.TheoryCovered || topic.PracticeCovered
	switch {
	case topic.TheoryCovered && topic.PracticeCovered:
		topic.CoverageMode = "both"
	case topic.TheoryCovered:
		topic.CoverageMode = "theory"
	case topic.PracticeCovered:
		topic.CoverageMode = "practice"
	default:
		topic.CoverageMode = ""
	}
}

// TopicProgress is the aggregated coverage for one curriculum topic.
// THEORY topics score 1.0 once theory is covered; PRACTICE topics score
// 0.5 per covered half so a topic can sit at 50%.
type TopicProgress struct {
	Topic           string        `json:"topic"`
	Category        TopicCategory `json:"category"`
	TheoryCovered   bool          `json:"theory_covered"`
	PracticeCovered bool          `json:"practice_covered"`
	Points          float64       `json:"points"`
}

// AggregateCoverage folds session topics into per-curriculum-topic
// progress. Callers choose which sessions to feed in (released only for
// trainee-facing views, drafts included for mentor provisional views).
func AggregateCoverage(sessions []*TrainingSession) (topics []*TopicProgress, earned, possible float64) {
	covered := make(map[string]*TopicProgress, len(Curriculum))
	for _, session := range sessions {
		for _, topic := range session.Topics {
			category, ok := TopicCategoryOf(topic.Topic)
			if !ok {
				continue
			}
			progress, exists := covered[topic.Topic]
			if !exists {
				progress = &TopicProgress{Topic: topic.Topic, Category: category}
				covered[topic.Topic] = progress
			}
			progress.TheoryCovered = progress.TheoryCovered || topic.TheoryCovered
			progress.PracticeCovered = progress.PracticeCovered || topic.PracticeCovered
		}
	}

	topics = make([]*TopicProgress, 0, len(Curriculum))
	for _, entry := range Curriculum {
		progress, exists := covered[entry.Key]
		if !exists {
			progress = &TopicProgress{Topic: entry.Key, Category: entry.Category}
		}
		if entry.Category == TheoryTopic {
			possible += 1
			if progress.TheoryCovered {
				progress.Points = 1
			}
		} else {
			possible += 1
			if progress.TheoryCovered {
				progress.Points += 0.5
			}
			if progress.PracticeCovered {
				progress.Points += 0.5
			}
		}
		earned += progress.Points
		topics = append(topics, progress)
	}
	return
}
