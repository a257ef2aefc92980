package curator

import (
	"context"
	"fmt"
	"math"
	"strings"

	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/pkg/llm"
)

// SelectionSize is the maximum number of cards in the final selection.
const SelectionSize = 5

const fallbackRationale = "A great track that complements your playlist's vibe!"

// SelectFinal picks up to SelectionSize candidates by rank, preferring groups the user
// does not know and backfilling with known ones only when needed.
func SelectFinal(candidates []Candidate, known map[string]bool) []Candidate {
	ranked := rankByDistance(candidates)

	final := make([]Candidate, 0, SelectionSize)
	var familiar []Candidate
	for _, c := range ranked {
		if known[c.Group] {
			familiar = append(familiar, c)
			continue
		}
		if len(final) < SelectionSize {
			final = append(final, c)
		}
	}
	for _, c := range familiar {
		if len(final) >= SelectionSize {
			break
		}
		final = append(final, c)
	}
	return final
}

type finalizeSelectionTool struct {
	writer llm.LLMProvider
	logger logger.ILogger
}

func (t *finalizeSelectionTool) Name() Action { return ActionFinalizeSelection }

func (t *finalizeSelectionTool) Description() string {
	return "Pick the final 5 tracks, prioritizing unknown artists, and explain the choice (ENDS THE SESSION)"
}

func (t *finalizeSelectionTool) Interrupting() bool { return false }

func (t *finalizeSelectionTool) Invoke(ctx context.Context, st State, _ map[string]any) Patch {
	final := SelectFinal(st.Candidates, st.KnownItems)

	cards := make([]Card, 0, len(final))
	allFamiliar := len(final) > 0
	for _, c := range final {
		if !st.Known(c.Group) {
			allFamiliar = false
		}
		rationale := generateOr(ctx, t.writer, t.logger, "card_rationale", rationalePrompt(c, st.Profile), fallbackRationale)
		cards = append(cards, Card{ID: c.ID, Title: c.Title, Group: c.Group, Rationale: rationale})
	}

	var message string
	if len(cards) == 0 {
		message = "I couldn't find any tracks matching your criteria. This might mean the library doesn't have enough tracks yet, " +
			"or the direction was too strict. Try adding more tracks or choosing a different direction!"
	} else {
		fallback := fmt.Sprintf("I found %d tracks that complement your playlist.", len(cards))
		message = generateOr(ctx, t.writer, t.logger, "selection_justification", justificationPrompt(cards, st.Profile), fallback)
		if allFamiliar && len(st.KnownItems) > 0 {
			message += " (Note: you knew all the artists I found, so these are the best matches from familiar artists.)"
		}
	}

	if st.Error != "" {
		message = fmt.Sprintf("I ran into an issue while curating (%s), so here is the best I could do.\n\n%s", st.Error, message)
	}

	t.logger.Info("TOOL", "Selection finalized", map[string]interface{}{
		"cards":      len(cards),
		"candidates": len(st.Candidates),
		"known":      len(st.KnownItems),
	})

	return Patch{
		SelectionFinalized: ptr(true),
		Status:             ptr(StatusCompleted),
		Presentation: &Presentation{
			Message: message,
			Cards:   cards,
		},
	}
}

// evidence compares a candidate's features with the seed profile means.
func evidence(c Candidate, p *Profile) string {
	var parts []string
	if p != nil && c.Tempo != nil && p.MeanTempo != nil {
		t, avg := *c.Tempo, *p.MeanTempo
		switch {
		case math.Abs(t-avg) < tempoMargin:
			parts = append(parts, fmt.Sprintf("its %.0f BPM matches your playlist's %.0f BPM tempo", t, avg))
		case t < avg:
			parts = append(parts, fmt.Sprintf("its slower %.0f BPM (vs your %.0f) creates a more relaxed feel", t, avg))
		default:
			parts = append(parts, fmt.Sprintf("its faster %.0f BPM (vs your %.0f) adds subtle drive", t, avg))
		}
	}
	if p != nil && c.Energy != nil && p.MeanEnergy != nil {
		e, avg := *c.Energy, *p.MeanEnergy
		switch {
		case math.Abs(e-avg) < energyMargin:
			parts = append(parts, fmt.Sprintf("energy of %.2f closely matches your %.2f", e, avg))
		case e < avg:
			parts = append(parts, fmt.Sprintf("lower energy (%.2f vs %.2f) keeps things intimate", e, avg))
		default:
			parts = append(parts, fmt.Sprintf("higher energy (%.2f vs %.2f) adds dynamic contrast", e, avg))
		}
	}
	if len(parts) == 0 {
		return "unique sonic qualities"
	}
	return strings.Join(parts, "; ")
}

func rationalePrompt(c Candidate, p *Profile) string {
	return fmt.Sprintf("You are a music curator. Write one compelling sentence explaining why '%s' by %s is a hidden gem for this listener.\n"+
		"Use this evidence and be specific about why the numbers make it a good match: %s.", c.Title, c.Group, evidence(c, p))
}

func justificationPrompt(cards []Card, p *Profile) string {
	var tracks strings.Builder
	for _, c := range cards {
		fmt.Fprintf(&tracks, "- %s by %s\n", c.Title, c.Group)
	}

	character := "a unique character"
	if p != nil && p.Description != "" {
		character = p.Description
	}

	return fmt.Sprintf("You are a music curator. You selected these %d tracks as hidden gems:\n\n%s\n"+
		"The original playlist: %s\n\n"+
		"Explain in 2-3 sentences why you chose these tracks and how they complement the playlist. "+
		"Write as if you're explaining your curation choices to the listener.", len(cards), tracks.String(), character)
}
