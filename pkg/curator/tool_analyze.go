package curator

import (
	"context"
	"fmt"
	"strings"

	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/pkg/llm"
)

// MinSeedItems is the smallest seed collection that can be profiled.
const MinSeedItems = 5

// DirectionOptions are the choices offered after analysis.
var DirectionOptions = []Option{
	{Label: "More of this", Value: DirectionSimilar},
	{Label: "Chill", Value: DirectionSoften},
	{Label: "Energy", Value: DirectionIntensify},
	{Label: "Surprise me", Value: DirectionSurprise},
}

// ValidDirection reports whether v is one of DirectionOptions.
func ValidDirection(v string) bool {
	for _, o := range DirectionOptions {
		if o.Value == v {
			return true
		}
	}
	return false
}

type analyzeSourceTool struct {
	seeds  SeedSource
	writer llm.LLMProvider
	logger logger.ILogger
}

func (t *analyzeSourceTool) Name() Action { return ActionAnalyzeSource }

func (t *analyzeSourceTool) Description() string {
	return "Analyze the seed playlist and ask the listener for a direction (INTERRUPTS THE LISTENER)"
}

func (t *analyzeSourceTool) Interrupting() bool { return true }

func (t *analyzeSourceTool) Invoke(ctx context.Context, st State, _ map[string]any) Patch {
	items, err := t.seeds.LoadSeed(ctx, st.CollectionID)
	if err != nil {
		t.logger.Error("TOOL", "Failed to load seed collection", map[string]interface{}{
			"collection_id": st.CollectionID,
			"error":         err.Error(),
		})
		return failedPatch(
			fmt.Errorf("%w: load seed collection: %v", ErrCollaboratorUnavailable, err),
			"Sorry, I couldn't read your playlist right now. Please try again in a moment.",
		)
	}

	if len(items) < MinSeedItems {
		t.logger.Warn("TOOL", "Seed collection too small", map[string]interface{}{
			"collection_id": st.CollectionID,
			"items":         len(items),
		})
		return failedPatch(
			fmt.Errorf("%w: playlist has %d tracks, at least %d required", ErrInsufficientSeedData, len(items), MinSeedItems),
			fmt.Sprintf("Your playlist needs more tracks! It currently has %d, but I need at least %d to understand your taste. Add some more songs and try again.", len(items), MinSeedItems),
		)
	}

	profile := BuildProfile(items)
	fallback := describeProfile(profile)
	profile.Description = generateOr(ctx, t.writer, t.logger, "profile_description", describePrompt(profile, fallback), fallback)

	message := fmt.Sprintf("I analyzed your playlist.\n\nTempo: %s BPM, Energy: %s\n\n%s\n\nWhat direction should I explore?",
		formatMean(profile.MeanTempo, "%.0f"),
		formatMean(profile.MeanEnergy, "%.2f"),
		profile.Description,
	)

	t.logger.Info("TOOL", "Seed collection analyzed", map[string]interface{}{
		"collection_id": st.CollectionID,
		"items":         profile.ItemCount,
		"categories":    profile.TopCategories,
	})

	return Patch{
		SourceAnalyzed: ptr(true),
		Profile:        &profile,
		Status:         ptr(StatusAwaitingDirection),
		Presentation: &Presentation{
			Message: message,
			Options: DirectionOptions,
		},
	}
}

func describePrompt(p Profile, sketch string) string {
	var b strings.Builder
	b.WriteString("You are describing a music playlist to its owner.\n")
	fmt.Fprintf(&b, "Average tempo: %s BPM. Average energy: %s. Top genres: %s.\n",
		formatMean(p.MeanTempo, "%.0f"), formatMean(p.MeanEnergy, "%.2f"), orDefault(strings.Join(p.TopCategories, ", "), "unknown"))
	fmt.Fprintf(&b, "Draft: %s\n", sketch)
	b.WriteString("Rewrite the draft as one warm, conversational sentence about the playlist's character. Do not mention exact numbers.")
	return b.String()
}

// failedPatch ends the session with a user-visible explanation and no retry.
func failedPatch(err error, message string) Patch {
	return Patch{
		SourceAnalyzed: ptr(true),
		Exhausted:      ptr(true),
		Status:         ptr(StatusFailed),
		Error:          ptr(err.Error()),
		Presentation:   &Presentation{Message: message},
	}
}
