package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Parser turns raw export text into message records.
type Parser struct {
	logger *zap.Logger
}

// Option configures the Parser.
type Option func(*Parser)

// WithLogger sets the logger used for parse diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse is a convenience wrapper returning only the records.
func Parse(raw string) []MessageRecord {
	return New().Parse(raw).Records
}

// Parse parses a complete export. It never fails: malformed lines are
// dropped and counted in the returned statistics.
func (p *Parser) Parse(raw string) *Result {
	b := newBuilder(p.logger)
	for _, line := range strings.Split(raw, "\n") {
		b.add(line)
	}
	return b.finish()
}

// ParseReader parses an export read line by line from r.
// Errors are returned only for read failures and context cancellation.
func (p *Parser) ParseReader(ctx context.Context, r io.Reader) (*Result, error) {
	b := newBuilder(p.logger)

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		b.add(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading export: %w", err)
	}

	return b.finish(), nil
}

// ParseFile parses the export stored at path.
func (p *Parser) ParseFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening export %s: %w", path, err)
	}
	defer f.Close()

	result, err := p.ParseReader(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return result, nil
}
