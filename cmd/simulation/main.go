// Command simulation runs a curation session end to end against an in-memory
// catalog and the rule-table policy, printing every supervisor pass.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strings"

	"gem-curator-be/internal/bootstrap"
	"gem-curator-be/internal/repository/memory"
	"gem-curator-be/pkg/curator"
	"gem-curator-be/pkg/llm"
	"gem-curator-be/pkg/llm/ollama"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

const (
	playlistID = "sim-playlist"
	dimensions = 16
)

func main() {
	seedSize := flag.Int("seed-size", 12, "tracks in the seed playlist")
	catalogSize := flag.Int("catalog-size", 400, "tracks in the catalog")
	direction := flag.String("direction", curator.DirectionSimilar, "answer to the direction question")
	known := flag.String("known", curator.KnownNone, "comma separated known artists, or none / all")
	ollamaURL := flag.String("ollama", "", "Ollama base URL for generated text and the LLM policy (empty = offline)")
	model := flag.String("model", "llama3", "Ollama model")
	flag.Parse()

	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	catalog := memory.NewCatalog()
	seedIDs := populate(catalog, rng, *seedSize, *catalogSize)
	catalog.AddPlaylist(playlistID, seedIDs...)

	var provider llm.LLMProvider
	policy := "rules"
	if *ollamaURL != "" {
		provider = ollama.NewOllamaProvider(*ollamaURL, *model)
		policy = "llm"
	}

	supervisor := bootstrap.NewSupervisor(policy, curator.Dependencies{
		Seeds:  catalog,
		Search: catalog,
		Writer: provider,
	}, provider, &passPrinter{})

	color.Cyan("=== Curation Simulation ===")
	fmt.Printf("Seed playlist: %d tracks, catalog: %d tracks, policy: %s\n\n", *seedSize, *catalogSize, policy)

	st := curator.NewState(uuid.NewString(), playlistID, "simulation")
	for {
		var suspended bool
		st, suspended = supervisor.Step(ctx, st)
		render(st)
		if !suspended {
			break
		}

		input := answer(st, *direction, *known)
		next, err := curator.Resume(st, input)
		if err != nil {
			color.Red("Resume rejected: %v", err)
			os.Exit(1)
		}
		st = next
	}

	color.Cyan("\n=== Finished: %s after %d passes ===", st.Status, st.IterationCount)
	if st.Error != "" {
		color.Red("Error: %s", st.Error)
	}
}

func answer(st curator.State, direction, known string) curator.ResumeInput {
	if st.Status == curator.StatusAwaitingDirection {
		color.Yellow("USER > direction: %s", direction)
		return curator.ResumeInput{SelectedDirection: &direction}
	}

	groups := strings.Split(known, ",")
	for i := range groups {
		groups[i] = strings.TrimSpace(groups[i])
	}
	color.Yellow("USER > known artists: %s", strings.Join(groups, ", "))
	return curator.ResumeInput{KnownGroupIDs: groups}
}

func render(st curator.State) {
	p := st.Presentation
	if p == nil {
		return
	}
	color.Green("\nCURATOR [%s] %s", st.Status, p.Message)
	for _, o := range p.Options {
		fmt.Printf("   ( ) %s [%s]\n", o.Label, o.Value)
	}
	for i, c := range p.Cards {
		fmt.Printf("   %d. %s - %s\n      %s\n", i+1, c.Title, c.Group, c.Rationale)
	}
	fmt.Println()
}

// populate builds a catalog of artists clustered around random centres. The
// seed playlist is drawn from the first few artists.
func populate(c *memory.Catalog, rng *rand.Rand, seedSize, catalogSize int) []string {
	genres := []string{"indie", "folk", "electronic", "ambient", "rock", "soul", "jazz", "hip hop"}
	artists := catalogSize / 8
	if artists < 10 {
		artists = 10
	}

	centres := make([][]float32, artists)
	for a := range centres {
		centres[a] = randomVector(rng, nil, 1)
	}

	seedIDs := make([]string, 0, seedSize)
	for i := 0; i < catalogSize; i++ {
		a := i % artists
		tempo := 70 + rng.Float64()*100
		energy := rng.Float64()
		item := curator.SeedItem{
			ID:         fmt.Sprintf("trk-%04d", i),
			Title:      fmt.Sprintf("Track %d", i),
			Group:      fmt.Sprintf("Artist %02d", a),
			Vector:     randomVector(rng, centres[a], 0.3),
			Tempo:      &tempo,
			Energy:     &energy,
			Categories: []string{genres[a%len(genres)], genres[(a+3)%len(genres)]},
		}
		c.AddTracks(item)
		if a < 3 && len(seedIDs) < seedSize {
			seedIDs = append(seedIDs, item.ID)
		}
	}
	return seedIDs
}

func randomVector(rng *rand.Rand, centre []float32, spread float64) []float32 {
	v := make([]float32, dimensions)
	for i := range v {
		base := 0.0
		if centre != nil {
			base = float64(centre[i])
		}
		v[i] = float32(base + rng.NormFloat64()*spread)
	}
	return v
}

// passPrinter is the decision log for the simulation: one coloured line per pass.
type passPrinter struct{}

func (p *passPrinter) Debug(module, message string, details map[string]interface{}) {}

func (p *passPrinter) Info(module, message string, details map[string]interface{}) {
	if module == "SUPERVISOR" && message == "Action chosen" {
		color.Blue("pass %v: %v", details["iteration"], details["action"])
		if r, ok := details["reasoning"].(string); ok && r != "" {
			fmt.Printf("   reasoning: %s\n", r)
		}
		return
	}
	fmt.Printf("[%s] %s %v\n", module, message, details)
}

func (p *passPrinter) Warn(module, message string, details map[string]interface{}) {
	color.Yellow("[%s] %s %v", module, message, details)
}

func (p *passPrinter) Error(module, message string, details map[string]interface{}) {
	color.Red("[%s] %s %v", module, message, details)
}

func (p *passPrinter) Sync() error { return nil }
