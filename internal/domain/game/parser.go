package game

import (
	"context"
	"errors"
	"fmt"
	"strings"

	c "github.com/okian/mmolbparse/internal/domain/combinator"
	"github.com/okian/mmolbparse/internal/domain/model"
	"github.com/okian/mmolbparse/internal/domain/timeline"
	"github.com/okian/mmolbparse/internal/domain/types"
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

// Parser turns game messages into events. It holds no per-message state and
// is safe for concurrent use.
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

// Parse reads msg. It never fails: text the grammar cannot read comes back as
// a ParseError that prints the original text.
func (p *Parser) Parse(ctx context.Context, msg model.Message) (ev Event) {
	kind, err := ParseEventType(msg.Kind)
	if err != nil {
		p.log.Error(ctx, "parse error",
			logger.String("reason", string(ReasonUnknownKind)),
			logger.String("kind", msg.Kind),
			logger.String("text", msg.Text),
		)
		return ParseError{Reason: ReasonUnknownKind, Kind: msg.Kind, Text: msg.Text}
	}

	defer func() {
		if r := recover(); r != nil {
			p.log.Error(ctx, "parse panic",
				logger.String("kind", msg.Kind),
				logger.String("text", msg.Text),
				logger.Any("panic", r),
			)
			ev = ParseError{Reason: ReasonFailedParsing, Kind: msg.Kind, Text: msg.Text}
		}
	}()

	f := p.Frame(msg)
	_, ev, err = c.Context(kind.String(), c.AllConsuming(rule(kind, f)))(msg.Text)
	if err != nil {
		p.log.Error(ctx, "parse error",
			logger.String("reason", string(ReasonFailedParsing)),
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

// rule picks the grammar for kind. HRC kinds have none.
func rule(kind EventType, f model.Frame) c.Parser[Event] {
	switch kind {
	case EventPitchingMatchup:
		return pitchingMatchupRule(f)
	case EventMoundVisit:
		return moundVisitRule(f)
	case EventGameOver:
		return gameOverRule
	case EventField:
		return fieldRule(f)
	case EventHomeLineup:
		return lineupRule(types.Home)
	case EventAwayLineup:
		return lineupRule(types.Away)
	case EventRecordkeeping:
		return recordkeepingRule
	case EventLiveNow:
		return liveNowRule(f)
	case EventInningStart:
		return inningStartRule(f)
	case EventPitch:
		return pitchRule(f)
	case EventInningEnd:
		return inningEndRule
	case EventPlayBall:
		return playBallRule
	case EventNowBatting:
		return nowBattingRule
	case EventWeatherDelivery:
		return weatherDeliveryRule(f)
	case EventFallingStar:
		return fallingStarRule
	case EventWeather:
		return weatherRule(f)
	case EventWeatherShipment:
		return weatherShipmentRule(f)
	case EventWeatherSpecialDelivery:
		return specialDeliveryRule(f)
	case EventWeatherProsperity:
		return prosperityRule(f)
	case EventBalk:
		return balkRule
	case EventPhotoContest:
		return photoContestRule(f)
	case EventParty:
		return partyRule
	case EventWeatherReflection:
		return reflectionRule(f)
	case EventWeatherWither:
		return weatherWitherRule(f)
	case EventLinealBelt:
		return linealBeltRule(f)
	}
	label := fmt.Sprintf("no grammar for %s", kind)
	return func(input string) (string, Event, error) {
		return c.Fail[Event](input, label)
	}
}
