package domain

import "fmt"

const (
	noAnalysisLabel = "No analysis available"
	noAnalysisHint  = "Upload photo during signup for AI insights"
)

// ScoredLabel is a prediction formatted for display.
type ScoredLabel struct {
	Label   string
	Percent string
}

// AIInsights is the display summary derived from a profile's classifier output.
type AIInsights struct {
	TopPredictions []ScoredLabel
	TopLabel       string
	TopConfidence  string
	Colors         []string
	Fits           []string
	Patterns       []string
}

// Available reports whether the summary came from real predictions.
func (a AIInsights) Available() bool {
	return len(a.TopPredictions) > 0
}

// DeriveAIInsights summarises c. The prediction list is sliced positionally:
// the first three labels read as colours, the next two as fits and the two
// after that as patterns.
func DeriveAIInsights(c *ClipInsights) AIInsights {
	if c == nil || len(c.AllPredictions) == 0 {
		return AIInsights{
			TopLabel:      noAnalysisLabel,
			TopConfidence: "0",
			Colors:        []string{noAnalysisHint},
			Fits:          []string{noAnalysisHint},
			Patterns:      []string{noAnalysisHint},
		}
	}

	preds := c.AllPredictions
	top := make([]ScoredLabel, 0, 5)
	for _, p := range window(preds, 0, 5) {
		top = append(top, ScoredLabel{Label: p.Label, Percent: percent(p.Score)})
	}

	out := AIInsights{
		TopPredictions: top,
		TopLabel:       c.TopLabel,
		TopConfidence:  "0",
		Colors:         labels(window(preds, 0, 3)),
		Fits:           labels(window(preds, 3, 5)),
		Patterns:       labels(window(preds, 5, 7)),
	}
	if out.TopLabel == "" {
		out.TopLabel = noAnalysisLabel
	}
	if c.TopConfidence != 0 {
		out.TopConfidence = percent(c.TopConfidence)
	}
	return out
}

func percent(score float64) string {
	return fmt.Sprintf("%.1f", score*100)
}

func window(preds []Prediction, from, to int) []Prediction {
	if from >= len(preds) {
		return nil
	}
	if to > len(preds) {
		to = len(preds)
	}
	return preds[from:to]
}

func labels(preds []Prediction) []string {
	out := make([]string, 0, len(preds))
	for _, p := range preds {
		out = append(out, p.Label)
	}
	return out
}
