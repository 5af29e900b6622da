package topic

import "strings"

// Label names a farming topic a user utterance can be about.
type Label string

const (
	General     Label = "general"
	Irrigation  Label = "irrigation"
	Crop        Label = "crop"
	Pest        Label = "pest"
	Fertilizer  Label = "fertilizer"
	Weather     Label = "weather"
	Temperature Label = "temperature"
	Yield       Label = "yield"
	Cost        Label = "cost"
)

// Bucket is a topic together with the substrings that select it.
type Bucket struct {
	Label    Label
	Keywords []string
}

// buckets is checked top to bottom and the first hit wins. Vocabulary overlaps
// ("irrigation for my crop", "plant" in "planting"), so the order is part of the contract.
var buckets = []Bucket{
	{Label: Irrigation, Keywords: []string{"water", "irrigation"}},
	{Label: Crop, Keywords: []string{"crop", "plant"}},
	{Label: Pest, Keywords: []string{"pest", "disease"}},
	{Label: Fertilizer, Keywords: []string{"fertilizer", "nutrient"}},
	{Label: Weather, Keywords: []string{"weather", "rain"}},
	{Label: Temperature, Keywords: []string{"temperature"}},
	{Label: Yield, Keywords: []string{"yield", "productivity"}},
	{Label: Cost, Keywords: []string{"cost", "savings"}},
}

// Priority returns the buckets in match order.
func Priority() []Bucket {
	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		out[i] = Bucket{Label: b.Label, Keywords: append([]string(nil), b.Keywords...)}
	}
	return out
}

// Classify returns the first topic whose keyword occurs in text, or General.
func Classify(text string) Label {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if normalized == "" {
		return General
	}

	for _, b := range buckets {
		for _, word := range b.Keywords {
			if strings.Contains(normalized, word) {
				return b.Label
			}
		}
	}
	return General
}

// Mentions lists every topic text touches, in priority order.
func Mentions(text string) []Label {
	normalized := strings.ToLower(text)

	var labels []Label
	for _, b := range buckets {
		for _, word := range b.Keywords {
			if strings.Contains(normalized, word) {
				labels = append(labels, b.Label)
				break
			}
		}
	}
	return labels
}
