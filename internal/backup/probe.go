package backup

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/subcontrol/internal/location"
	"github.com/dmitrijs2005/subcontrol/internal/logging"
)

type ValidationResult struct {
	Valid   bool
	Message string
	// Kind is FailureUnknown when Valid is set.
	Kind        FailureKind
	RecordCount int
}

// Probe checks an artifact without restoring it.
type Probe struct {
	decoder
}

func NewProbe(dec Decrypter, log logging.Logger) *Probe {
	return &Probe{decoder: decoder{dec: dec, log: log, now: time.Now}}
}

// Validate runs the restore checks against src and reports the outcome.
// It never writes anything, so repeated calls agree.
func (p *Probe) Validate(ctx context.Context, src location.Source) ValidationResult {
	if !strings.HasSuffix(strings.ToLower(src.Name()), Extension) {
		return ValidationResult{
			Kind:    FailureValidation,
			Message: fmt.Sprintf("Unsupported file type: expected a %s backup file", Extension),
		}
	}

	d, f := p.decode(ctx, src)
	if f != nil {
		p.log.Debug(ctx, "probe: invalid backup", "source", src.Name(), "kind", f.Kind, "error", f)
		return ValidationResult{Kind: f.Kind, Message: f.Message}
	}

	return ValidationResult{
		Valid:       true,
		RecordCount: len(d.records),
		Message:     validSummary(len(d.records), d.createdAt),
	}
}

func validSummary(n int, createdAt time.Time) string {
	return fmt.Sprintf("Backup is valid: %d subscriptions (created %s)", n, createdAt.UTC().Format(time.RFC3339))
}
