package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/pkg/logger"
)

// Option configures a Parser.
type Option func(*Parser)

// WithLogger sets the logger parse failures and unknown words are reported to.
func WithLogger(l logger.Logger) Option {
	return func(p *Parser) {
		if l != nil {
			p.log = l
		}
	}
}

// WithTable sets the breakpoint table used to pick wording.
func WithTable(t *timeline.Table) Option {
	return func(p *Parser) {
		p.table = t
	}
}

// Parser reads player, team and generic feed entries. It is safe for
// concurrent use.
type Parser struct {
	log   logger.Logger
	table *timeline.Table
}

// NewParser creates a Parser.
func NewParser(opts ...Option) *Parser {
	p := &Parser{log: logger.NewDiscard()}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Frame returns the wording context for msg.
func (p *Parser) Frame(msg model.Message) model.Frame { return msg.Frame(p.table) }

// Parse reads msg with the grammar of its family. Anything unreadable comes
// back as a ParseError holding the original text.
func (p *Parser) Parse(ctx context.Context, msg model.Message) (ev Event) {
	kind, err := ParseKind(msg.Kind)
	if err != nil {
		p.log.Error(ctx, "parse error",
			logger.String("reason", string(ReasonUnknownKind)),
			logger.String("family", string(msg.Family)),
			logger.String("kind", msg.Kind),
			logger.String("text", msg.Text),
		)
		return ParseError{Reason: ReasonUnknownKind, Kind: msg.Kind, Text: msg.Text}
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error(ctx, "parse panic",
				logger.String("family", string(msg.Family)),
				logger.String("kind", msg.Kind),
				logger.String("text", msg.Text),
				logger.Any("panic", r),
			)
			ev = ParseError{Reason: ReasonFailedParsing, Kind: msg.Kind, Text: msg.Text}
		}
	}()

	grammar := rule(msg.Family, kind, p.Frame(msg))
	_, ev, err = c.Context(string(msg.Family)+" "+kind.String(), c.AllConsuming(grammar))(msg.Text)
	if err != nil {
		p.log.Error(ctx, "parse error",
			logger.String("reason", string(ReasonFailedParsing)),
			logger.String("family", string(msg.Family)),
			logger.String("kind", msg.Kind),
			logger.String("rule", ruleOf(err)),
			logger.String("remainder", c.Remainder(err)),
			logger.String("text", msg.Text),
		)
		return ParseError{Reason: ReasonFailedParsing, Kind: msg.Kind, Text: msg.Text}
	}
	if vc, ok := ev.(vocabularyChecker); ok {
		for _, word := range vc.Unrecognized() {
			p.log.Warn(ctx, "unrecognized vocabulary",
				logger.String("family", string(msg.Family)),
				logger.String("kind", msg.Kind),
				logger.String("word", word),
			)
		}
	}
	return ev
}

// Unparse prints ev in the wording msg's moment used.
func (p *Parser) Unparse(msg model.Message, ev Event) string {
	return ev.Unparse(p.Frame(msg))
}

func ruleOf(err error) string {
	var perr *c.Error
	if errors.As(err, &perr) {
		return strings.Join(perr.Expected, " > ")
	}
	return err.Error()
}

func rule(family model.Family, kind Kind, f model.Frame) c.Parser[Event] {
	var p c.Parser[Event]
	switch family {
	case model.FamilyPlayer:
		p = playerRule(kind, f)
	case model.FamilyTeam:
		p = teamRule(kind, f)
	case model.FamilyGeneric:
		p = genericRule(kind)
	}
	if p != nil {
		return p
	}
	label := fmt.Sprintf("no %s grammar for %s", family, kind)
	return func(input string) (string, Event, error) {
		return c.Fail[Event](input, label)
	}
}
