// Package ai wraps the external categorization service. The core consumes a
// single synchronous (category, confidence) result; retry and backoff, if
// any, belong to the service behind the endpoint, not to this client.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"samadhan/backend/internal/models"
)

// Suggestion is the inference result for one complaint text.
type Suggestion struct {
	Category   models.Category `json:"category"`
	Confidence float64         `json:"confidence"`
}

// Categorizer produces a category suggestion for complaint text.
type Categorizer interface {
	Categorize(ctx context.Context, title, description string) (Suggestion, error)
}

// HTTPCategorizer posts the complaint text to an inference endpoint and
// decodes the suggestion from its JSON reply.
type HTTPCategorizer struct {
	Endpoint string
	Client   *http.Client
}

// NewHTTPCategorizer builds a client for the given endpoint.
func NewHTTPCategorizer(endpoint string) *HTTPCategorizer {
	return &HTTPCategorizer{
		Endpoint: endpoint,
		Client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Categorize performs the inference call.
func (h *HTTPCategorizer) Categorize(ctx context.Context, title, description string) (Suggestion, error) {
	body, err := json.Marshal(map[string]string{
		"title":       title,
		"description": description,
	})
	if err != nil {
		return Suggestion{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.Endpoint, bytes.NewReader(body))
	if err != nil {
		return Suggestion{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.Client.Do(req)
	if err != nil {
		return Suggestion{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Suggestion{}, fmt.Errorf("categorizer returned status %d", resp.StatusCode)
	}

	var suggestion Suggestion
	if err := json.NewDecoder(resp.Body).Decode(&suggestion); err != nil {
		return Suggestion{}, err
	}
	return suggestion, nil
}

// KeywordCategorizer is the fallback used when no inference endpoint is
// configured. It scores categories by keyword hits in the complaint text; the
// confidence grows with the number of hits but saturates below the
// auto-categorization threshold only for single weak matches.
type KeywordCategorizer struct{}

var categoryKeywords = map[models.Category][]string{
	models.CategoryRoadDamage:          {"pothole", "road", "asphalt", "crack", "pavement"},
	models.CategoryStreetLight:         {"street light", "streetlight", "lamp", "light pole", "dark street"},
	models.CategoryGarbageCollection:   {"garbage", "trash", "waste", "litter", "dump"},
	models.CategoryWaterSupply:         {"water supply", "tap water", "pipeline", "no water", "leak"},
	models.CategorySewage:              {"sewage", "drain", "drainage", "sewer", "overflow"},
	models.CategoryIllegalConstruction: {"illegal construction", "encroachment", "unauthorized building"},
	models.CategoryNoisePollution:      {"noise", "loud", "loudspeaker", "honking"},
	models.CategoryAirPollution:        {"smoke", "air pollution", "smog", "burning", "fumes"},
	models.CategoryPublicSafety:        {"unsafe", "danger", "accident", "hazard", "crime"},
	models.CategoryVandalism:           {"vandalism", "graffiti", "broken", "damaged property"},
}

// Categorize matches keywords against the lowercased text.
func (KeywordCategorizer) Categorize(_ context.Context, title, description string) (Suggestion, error) {
	text := strings.ToLower(title + " " + description)

	best := Suggestion{Category: models.CategoryOther, Confidence: 0}
	for category, keywords := range categoryKeywords {
		hits := 0
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				hits++
			}
		}
		if hits == 0 {
			continue
		}
		confidence := 0.5 + 0.2*float64(hits)
		if confidence > 0.95 {
			confidence = 0.95
		}
		if confidence > best.Confidence {
			best = Suggestion{Category: category, Confidence: confidence}
		}
	}
	return best, nil
}
