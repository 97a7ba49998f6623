// Package parse turns raw content documents into typed records.
package parse

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/cognicore/examdex/pkg/examdex/config"
	"github.com/cognicore/examdex/pkg/examdex/internalerr"
	"github.com/cognicore/examdex/pkg/examdex/markdown"
	"github.com/cognicore/examdex/pkg/examdex/record"
)

// Document is one raw input file
type Document struct {
	Path string
	Kind record.Kind
	Text string
}

// Options configures a Parser. Nil fields fall back to defaults.
type Options struct {
	Config   *config.Config
	Renderer markdown.Renderer
	Logger   *zap.Logger
}

// Parser converts documents of every kind
type Parser struct {
	cfg        *config.Config
	classifier *Classifier
	renderer   markdown.Renderer
	log        *zap.Logger
}

// New creates a parser
func New(opts Options) *Parser {
	p := &Parser{
		cfg:      opts.Config,
		renderer: opts.Renderer,
		log:      opts.Logger,
	}
	if p.cfg == nil {
		p.cfg = config.Default()
	}
	if p.renderer == nil {
		p.renderer = markdown.New()
	}
	if p.log == nil {
		p.log = zap.NewNop()
	}
	p.classifier = NewClassifier(p.cfg.Taxonomy, p.cfg.TitleLength)
	return p
}

// Parse dispatches on the document kind
func (p *Parser) Parse(doc Document) (record.Record, error) {
	switch doc.Kind {
	case record.KindQuiz:
		q, err := p.ParseQuiz(doc)
		if err != nil {
			return nil, err
		}
		return q, nil
	case record.KindCaseAnalysis, record.KindEssayGuidance:
		n, err := p.ParseNarrative(doc)
		if err != nil {
			return nil, err
		}
		return n, nil
	}
	return nil, fmt.Errorf("%w: unknown kind %q", internalerr.ErrMalformedRecord, doc.Kind)
}

// render converts markdown to HTML, keeping the raw text on failure
func (p *Parser) render(path, md string) string {
	html, err := p.renderer.Render(md)
	if err != nil {
		p.log.Warn("markdown conversion failed, keeping raw text",
			zap.String("path", path), zap.Error(err))
		return md
	}
	return html
}
