package analysis

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"signal-link.klederson.com/internal/config"
	"signal-link.klederson.com/internal/metrics"
)

// Analyzer turns an emergency description into an Assessment. Implementations
// never fail; they degrade to Default instead.
type Analyzer interface {
	Analyze(ctx context.Context, text string) Assessment
}

// Default is the assessment used when no analysis is possible.
func Default() Assessment {
	return Assessment{
		Category: CategoryOther,
		Priority: PriorityHigh,
		Summary:  config.DefaultSummary,
	}
}

// Local runs the keyword classifier after a short artificial delay so the
// UI has a visible "analyzing" state.
type Local struct {
	Delay time.Duration
}

// NewLocal creates a keyword analyzer with the standard processing delay.
func NewLocal() *Local {
	return &Local{Delay: config.AnalysisDelay}
}

func (l *Local) Analyze(ctx context.Context, text string) Assessment {
	if l.Delay > 0 {
		t := time.NewTimer(l.Delay)
		defer t.Stop()
		select {
		case <-ctx.Done():
		case <-t.C:
		}
	}
	a := Classify(text)
	metrics.ObserveClassification(metrics.SourceLocal, string(a.Category), string(a.Priority))
	return a
}

// New builds the analyzer selected by settings.
func New(s config.AnalysisSettings, log logrus.FieldLogger) Analyzer {
	if s.Mode == config.AnalysisRemote {
		log.WithField("endpoint", s.Endpoint).Info("using remote emergency analyzer")
		return NewRemote(s.Endpoint, s.APIKey, s.Timeout, log)
	}
	return NewLocal()
}
