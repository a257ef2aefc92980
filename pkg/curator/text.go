package curator

import (
	"context"
	"strings"

	"gem-curator-be/internal/pkg/logger"
	"gem-curator-be/pkg/llm"
)

// generateOr asks the writer for text and falls back to a fixed string on any failure.
func generateOr(ctx context.Context, writer llm.LLMProvider, log logger.ILogger, purpose, prompt, fallback string) string {
	if writer == nil {
		return fallback
	}

	text, err := writer.Generate(ctx, prompt, llm.WithTemperature(0.7))
	if err != nil {
		log.Warn("TOOL", "Text generation failed, using fallback", map[string]interface{}{
			"purpose": purpose,
			"error":   err.Error(),
		})
		return fallback
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return fallback
	}
	return text
}
