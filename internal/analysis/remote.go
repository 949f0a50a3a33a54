package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"signal-link.klederson.com/internal/metrics"
)

const promptTemplate = `Analyze this emergency message: "%s".
Classify it as one of MEDICAL, ENVIRONMENTAL, SECURITY or OTHER.
Estimate priority (LOW, MEDIUM, HIGH, CRITICAL).
Provide a very short 3-5 word tactical summary.
Respond with JSON: {"type": "...", "priority": "...", "summary": "..."}`

// Remote asks a hosted language model to classify the description. Any
// failure yields Default; nothing is retried.
type Remote struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        logrus.FieldLogger
}

// NewRemote constructs an analyzer posting to endpoint.
func NewRemote(endpoint, apiKey string, timeout time.Duration, log logrus.FieldLogger) *Remote {
	return &Remote{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

func (r *Remote) Analyze(ctx context.Context, text string) Assessment {
	a, err := r.request(ctx, text)
	if err != nil {
		r.log.WithError(err).Warn("remote analysis failed, using default assessment")
		metrics.ObserveFallback()
		return Default()
	}
	metrics.ObserveClassification(metrics.SourceRemote, string(a.Category), string(a.Priority))
	return a
}

func (r *Remote) request(ctx context.Context, text string) (Assessment, error) {
	if r.endpoint == "" {
		return Assessment{}, fmt.Errorf("remote analyzer endpoint not configured")
	}

	body, err := json.Marshal(map[string]string{"prompt": fmt.Sprintf(promptTemplate, text)})
	if err != nil {
		return Assessment{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return Assessment{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.apiKey != "" {
		req.Header.Set("X-API-Key", r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Assessment{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return Assessment{}, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var raw struct {
		Type     string `json:"type"`
		Priority string `json:"priority"`
		Summary  string `json:"summary"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Assessment{}, fmt.Errorf("decode response: %w", err)
	}

	category, err := ParseCategory(raw.Type)
	if err != nil {
		return Assessment{}, err
	}
	priority, err := ParsePriority(raw.Priority)
	if err != nil {
		return Assessment{}, err
	}
	summary := strings.TrimSpace(raw.Summary)
	if summary == "" {
		summary = Summarize(text)
	}

	return Assessment{Category: category, Priority: priority, Summary: summary}, nil
}
