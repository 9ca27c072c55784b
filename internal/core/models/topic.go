package models

import "strings"

type TopicCategory struct {
	Name      string   `json:"name"`
	Subtopics []string `json:"subtopics"`
}

var topicCatalogue = []TopicCategory{
	{Name: "indoor", Subtopics: []string{"Household", "Office/Workspace", "Retail & Commercial"}},
	{Name: "outdoor", Subtopics: []string{"Parks", "Streets", "Public Spaces"}},
	{Name: "transportation", Subtopics: []string{"Public Transit", "Traffic", "Navigation"}},
	{Name: "specialized", Subtopics: []string{"Events", "Construction", "Other"}},
}

// Topics returns a copy of the catalogue in display order.
func Topics() []TopicCategory {
	out := make([]TopicCategory, len(topicCatalogue))
	for i, c := range topicCatalogue {
		out[i] = TopicCategory{Name: c.Name, Subtopics: append([]string(nil), c.Subtopics...)}
	}
	return out
}

// IsValidTopic accepts "main/sub". Subtopics may themselves contain a slash
// (Office/Workspace), so only the first separator splits.
func IsValidTopic(topic string) bool {
	category, sub, ok := strings.Cut(topic, "/")
	if !ok {
		return false
	}
	for _, c := range topicCatalogue {
		if c.Name != category {
			continue
		}
		for _, s := range c.Subtopics {
			if s == sub {
				return true
			}
		}
	}
	return false
}
