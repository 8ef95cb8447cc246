package importers

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mrlokans/quotes/internal/entities"
	"github.com/mrlokans/quotes/internal/logging"
)

// QuoteAppender stores imported quotes in one step.
type QuoteAppender interface {
	Append(ctx context.Context, quotes []entities.Quote) error
}

// Archiver keeps a copy of the raw payload and returns its name.
type Archiver interface {
	SaveRaw(payload []byte) (string, error)
}

// Recorder is told about every import attempt.
type Recorder interface {
	LogImport(description string, count int, archive string, err error)
}

type ImportResult struct {
	QuotesImported int    `json:"quotes_imported"`
	Archive        string `json:"archive,omitempty"`
}

// Pipeline handles the common import workflow: archive → parse → append.
type Pipeline struct {
	appender QuoteAppender
	archiver Archiver
	recorder Recorder
	logger   *zap.SugaredLogger
}

type Option func(*Pipeline)

func WithArchiver(archiver Archiver) Option {
	return func(p *Pipeline) {
		p.archiver = archiver
	}
}

func WithRecorder(recorder Recorder) Option {
	return func(p *Pipeline) {
		p.recorder = recorder
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

func NewPipeline(appender QuoteAppender, opts ...Option) *Pipeline {
	p := &Pipeline{appender: appender}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = logging.OrNop(p.logger)
	return p
}

// Import parses data and appends every quote in it. The collection is
// untouched when any step fails.
func (p *Pipeline) Import(ctx context.Context, data []byte) (ImportResult, error) {
	var result ImportResult

	if p.archiver != nil {
		name, err := p.archiver.SaveRaw(data)
		if err != nil {
			p.logger.Warnf("Failed to archive import payload: %v", err)
		} else {
			result.Archive = name
		}
	}

	parsed, err := Parse(data)
	if err == nil {
		err = p.appender.Append(ctx, parsed)
	}
	if err != nil {
		err = fmt.Errorf("import rejected: %w", err)
		p.record("Import rejected", 0, result.Archive, err)
		return result, err
	}

	result.QuotesImported = len(parsed)
	p.record(fmt.Sprintf("Imported %d quotes", len(parsed)), len(parsed), result.Archive, nil)
	p.logger.Infof("Imported %d quotes", len(parsed))
	return result, nil
}

func (p *Pipeline) record(description string, count int, archive string, err error) {
	if p.recorder != nil {
		p.recorder.LogImport(description, count, archive, err)
	}
}
