// Package alert classifies free-form alert text into one of the fixed alert
// categories by counting trigger phrases.
package alert

import "strings"

// Classifier scores text against an immutable pattern table.
type Classifier struct {
	table PatternTable
}

// New builds a classifier over a copy of table with every trigger lowercased.
func New(table PatternTable) *Classifier {
	normalized := make(PatternTable, len(table))
	for i, p := range table {
		triggers := make([]string, 0, len(p.Triggers))
		for _, trigger := range p.Triggers {
			trigger = strings.ToLower(trigger)
			if trigger == "" {
				continue
			}
			triggers = append(triggers, trigger)
		}
		normalized[i] = Patterns{Category: p.Category, Triggers: triggers}
	}
	return &Classifier{table: normalized}
}

var defaultClassifier = New(DefaultPatterns)

// Classify reports the best matching category for text using DefaultPatterns.
func Classify(text string) (Category, bool) {
	return defaultClassifier.Classify(text)
}

// Classify returns the category with the most distinct triggers contained in
// text. Ties go to the category declared first. ok is false when no trigger
// matches.
func (c *Classifier) Classify(text string) (Category, bool) {
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	lower := strings.ToLower(text)

	var best Category
	bestScore := 0
	for _, p := range c.table {
		if score := score(lower, p.Triggers); score > bestScore {
			best, bestScore = p.Category, score
		}
	}
	if bestScore == 0 {
		return "", false
	}
	return best, true
}

// Scores returns the per-category score for text in table order.
func (c *Classifier) Scores(text string) map[Category]int {
	lower := strings.ToLower(text)
	scores := make(map[Category]int, len(c.table))
	for _, p := range c.table {
		scores[p.Category] = score(lower, p.Triggers)
	}
	return scores
}

// score counts triggers present in text; repeats of one trigger count once.
func score(text string, triggers []string) int {
	n := 0
	for _, trigger := range triggers {
		if strings.Contains(text, trigger) {
			n++
		}
	}
	return n
}
