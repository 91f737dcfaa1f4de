package frame

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/punchamoorthee/gashawk/internal/domain"
	"github.com/punchamoorthee/gashawk/internal/metrics"
	"github.com/punchamoorthee/gashawk/internal/resolver"
	"github.com/punchamoorthee/gashawk/internal/service"
)

// Action tokens echoed back by the client.
const (
	TokenLearn     = "learn"
	TokenLearnMore = "learn_2"
	TokenCalculate = "calculate"
	TokenCheck     = "check"
	TokenExample   = "example"
	TokenReset     = "reset"
)

// DemoAddress is used by the "example" action instead of user input.
const DemoAddress domain.Address = "0xD7029BDEa1c17493893AAfE29AAD69EF892B8ff2"

// Input is everything the client sends with one interaction.
type Input struct {
	PreviousAction string `json:"previous_action"`
	Text           string `json:"input_text"`
	Initial        bool   `json:"initial"`
}

func (in Input) hasText() bool { return strings.TrimSpace(in.Text) != "" }

type rule struct {
	state   domain.State
	matches func(Input) bool
}

// rules are evaluated top to bottom; the first match wins.
var rules = []rule{
	{domain.StateWelcome, func(in Input) bool { return in.Initial || in.PreviousAction == TokenReset }},
	{domain.StateLearn, func(in Input) bool { return in.PreviousAction == TokenLearn }},
	{domain.StateLearnMore, func(in Input) bool { return in.PreviousAction == TokenLearnMore }},
	{domain.StateInputPrompt, func(in Input) bool { return in.PreviousAction == TokenCalculate && !in.hasText() }},
	{domain.StateReport, func(in Input) bool {
		return (in.PreviousAction == TokenCheck && in.hasText()) || in.PreviousAction == TokenExample
	}},
}

// Classify picks the state an interaction enters. It never returns the two
// error states; those are reached only from StateReport.
func Classify(in Input) domain.State {
	for _, r := range rules {
		if r.matches(in) {
			return r.state
		}
	}
	return domain.StateFallback
}

// Resolver turns user text into an address.
type Resolver interface {
	Resolve(ctx context.Context, input string) (domain.Address, error)
}

type ResolverFunc func(ctx context.Context, input string) (domain.Address, error)

func (f ResolverFunc) Resolve(ctx context.Context, input string) (domain.Address, error) {
	return f(ctx, input)
}

// Machine drives one interaction to exactly one screen. It keeps no state
// between calls.
type Machine struct {
	resolver   Resolver
	calculator *service.Calculator
	log        *slog.Logger
}

func NewMachine(r Resolver, usage service.Aggregator, rates service.RateSource, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{
		resolver:   r,
		calculator: service.NewCalculator(usage, rates),
		log:        logger,
	}
}

// Step returns the screen for in. Every failure, including a panic in a
// collaborator, ends in an error screen.
func (m *Machine) Step(ctx context.Context, in Input) (screen domain.Screen) {
	defer func() {
		if r := recover(); r != nil {
			m.log.ErrorContext(ctx, "interaction panicked", "panic", r, "previous_action", in.PreviousAction)
			screen = errorCalculationScreen()
		}
		metrics.Screens.WithLabelValues(string(screen.State)).Inc()
	}()

	switch Classify(in) {
	case domain.StateWelcome:
		return welcomeScreen()
	case domain.StateLearn:
		return learnScreen()
	case domain.StateLearnMore:
		return learnMoreScreen()
	case domain.StateInputPrompt:
		return inputPromptScreen()
	case domain.StateReport:
		return m.report(ctx, in)
	default:
		return fallbackScreen()
	}
}

func (m *Machine) report(ctx context.Context, in Input) domain.Screen {
	var (
		address domain.Address
		name    string
	)
	if in.PreviousAction == TokenExample {
		address = DemoAddress
	} else {
		text := strings.TrimSpace(in.Text)
		resolved, err := m.resolve(ctx, text)
		if err != nil {
			m.log.InfoContext(ctx, "address resolution failed", "input", text, "error", err)
			return errorResolutionScreen(resolutionMessage(err))
		}
		address = resolved
		if resolver.IsName(text) {
			name = text
		}
	}

	report, err := m.calculator.Calculate(ctx, address)
	if err != nil {
		m.log.WarnContext(ctx, "savings calculation failed", "address", address.String(), "error", err)
		return errorCalculationScreen()
	}
	report.Name = name
	return reportScreen(report)
}

// resolve keeps a resolver panic on the resolution error path.
func (m *Machine) resolve(ctx context.Context, text string) (addr domain.Address, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("resolver panicked: %v", r)
		}
	}()
	return m.resolver.Resolve(ctx, text)
}

func resolutionMessage(err error) string {
	var resErr *resolver.ResolutionError
	if errors.As(err, &resErr) && resErr.Reason != "" {
		return resErr.Reason
	}
	return "Please enter a valid Ethereum address or ENS name"
}
