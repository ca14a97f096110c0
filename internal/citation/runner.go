package citation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/localclarity/citation-intel/internal/model"
	"github.com/localclarity/citation-intel/pkg/answers"
)

// systemInstruction pins the engine into local-search mode. Kept fixed so
// measurements are comparable across runs.
const systemInstruction = "You are a local search assistant helping people discover businesses. Answer with JSON only, no prose."

// recommendationPayload is the schema the engine is asked to produce.
type recommendationPayload struct {
	Recommendations []struct {
		Business  string  `json:"business"`
		SourceURL *string `json:"source_url"`
	} `json:"recommendations"`
}

// Runner issues one discovery query to the answer engine and extracts the
// cited source URLs.
type Runner struct {
	client answers.Client
}

// NewRunner creates a Runner backed by the given answers client.
func NewRunner(client answers.Client) *Runner {
	return &Runner{client: client}
}

// RunQuery runs one discovery query. Success is false only on a fatal
// per-query error (transport failure); a missing credential or an
// unparseable response both degrade to "ran, found nothing" so they never
// poison the sample's failure statistics.
func (r *Runner) RunQuery(ctx context.Context, queryText string) model.CitationQueryResult {
	result := model.CitationQueryResult{QueryText: queryText, Success: true}

	if r.client == nil || !r.client.Configured() {
		return result
	}

	prompt := fmt.Sprintf(`%s

Respond with a JSON object of this exact form:
{"recommendations": [{"business": "<name>", "source_url": "<url you would cite>"}]}
Include the source_url of the listing or review platform you based each recommendation on. Omit source_url if you have none.`, queryText)

	text, err := r.client.Ask(ctx, systemInstruction, prompt)
	if err != nil {
		zap.L().Warn("citation: query failed",
			zap.String("query", queryText),
			zap.Error(err),
		)
		result.Success = false
		return result
	}

	var payload recommendationPayload
	if err := json.Unmarshal([]byte(stripCodeFences(text)), &payload); err != nil {
		// Data-quality event, not a query failure: the engine answered,
		// it just didn't follow the schema.
		zap.L().Warn("citation: unparseable engine response",
			zap.String("query", queryText),
			zap.Int("response_len", len(text)),
		)
		result.Ambiguous = true
		return result
	}

	for _, rec := range payload.Recommendations {
		if rec.SourceURL != nil && *rec.SourceURL != "" {
			result.CitedURLs = append(result.CitedURLs, *rec.SourceURL)
		}
	}
	return result
}

// stripCodeFences unwraps a ```json ... ``` block if the engine added one.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.Index(s, "\n"); i >= 0 {
		s = s[i+1:] // drop the language tag line
	}
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
