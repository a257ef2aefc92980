package curator

import (
	"fmt"
	"sort"
	"strings"
)

const maxTopCategories = 5

// BuildProfile aggregates the numeric features and categories of a seed collection.
// Description is filled in by the analyze tool.
func BuildProfile(items []SeedItem) Profile {
	var tempoSum, energySum float64
	var tempoN, energyN int
	counts := map[string]int{}

	for _, it := range items {
		if it.Tempo != nil {
			tempoSum += *it.Tempo
			tempoN++
		}
		if it.Energy != nil {
			energySum += *it.Energy
			energyN++
		}
		for _, c := range it.Categories {
			c = strings.TrimSpace(c)
			if c != "" {
				counts[c]++
			}
		}
	}

	p := Profile{ItemCount: len(items), TopCategories: topCategories(counts, maxTopCategories)}
	if tempoN > 0 {
		p.MeanTempo = ptr(tempoSum / float64(tempoN))
	}
	if energyN > 0 {
		p.MeanEnergy = ptr(energySum / float64(energyN))
	}
	return p
}

func topCategories(counts map[string]int, n int) []string {
	cats := make([]string, 0, len(counts))
	for c := range counts {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool {
		if counts[cats[i]] != counts[cats[j]] {
			return counts[cats[i]] > counts[cats[j]]
		}
		return cats[i] < cats[j]
	})
	if len(cats) > n {
		cats = cats[:n]
	}
	return cats
}

// Centroid is the element-wise mean of the seed vectors. Vectors whose dimension
// differs from the first non-empty one are skipped.
func Centroid(items []SeedItem) []float32 {
	var sum []float64
	n := 0
	for _, it := range items {
		if len(it.Vector) == 0 {
			continue
		}
		if sum == nil {
			sum = make([]float64, len(it.Vector))
		}
		if len(it.Vector) != len(sum) {
			continue
		}
		for i, v := range it.Vector {
			sum[i] += float64(v)
		}
		n++
	}
	if n == 0 {
		return nil
	}
	out := make([]float32, len(sum))
	for i, v := range sum {
		out[i] = float32(v / float64(n))
	}
	return out
}

// describeProfile is the rule-based character sketch, also used as the fallback
// when text generation is unavailable.
func describeProfile(p Profile) string {
	tempo := "an unmeasured"
	if p.MeanTempo != nil {
		switch bpm := *p.MeanTempo; {
		case bpm < 90:
			tempo = "a slow, contemplative"
		case bpm < 120:
			tempo = "a moderate, relaxed"
		case bpm < 140:
			tempo = "an upbeat, energetic"
		default:
			tempo = "a fast-paced, driving"
		}
	}

	energy := "an open"
	if p.MeanEnergy != nil {
		switch e := *p.MeanEnergy; {
		case e < 0.3:
			energy = "a mellow and intimate"
		case e < 0.6:
			energy = "a balanced and dynamic"
		default:
			energy = "an intense and powerful"
		}
	}

	genres := "eclectic"
	if len(p.TopCategories) > 0 {
		n := len(p.TopCategories)
		if n > 2 {
			n = 2
		}
		genres = strings.Join(p.TopCategories[:n], ", ")
	}

	return fmt.Sprintf("This playlist has %s tempo with %s feel, featuring %s influences.", tempo, energy, genres)
}

func formatMean(v *float64, format string) string {
	if v == nil {
		return "n/a"
	}
	return fmt.Sprintf(format, *v)
}
