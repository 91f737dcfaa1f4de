package frame

import (
	"fmt"

	"github.com/punchamoorthee/gashawk/internal/domain"
)

const (
	ProductURL  = "https://app.gashawk.io/#/setup?refCode=JQW-AWY"
	ExplorerURL = "https://etherscan.io/address/"

	Disclaimer = "Results limited to last 10k TX since EIP-1559. Savings based on GasHawk's 31.8% average over past 30 days."
)

func post(label, token string) domain.Action {
	return domain.Action{Label: label, Kind: domain.ActionPost, Token: token}
}

func link(label, target string) domain.Action {
	return domain.Action{Label: label, Kind: domain.ActionLink, Target: target}
}

func reset(label string) domain.Action {
	return domain.Action{Label: label, Kind: domain.ActionReset, Token: TokenReset}
}

func line(tone domain.Tone, text string) domain.Line {
	return domain.Line{Text: text, Tone: tone}
}

func welcomeScreen() domain.Screen {
	return domain.Screen{
		State: domain.StateWelcome,
		Lines: []domain.Line{
			line(domain.ToneTitle, "GasHawk 🦅 Keep Your ETH"),
			line(domain.ToneMuted, "Slash Up to 95% Gas Fee Costs Optimizing Your Transactions"),
		},
		Actions: []domain.Action{
			post("Learn How It Works", TokenLearn),
			post("Calculate Your Savings", TokenCalculate),
		},
	}
}

func learnScreen() domain.Screen {
	return domain.Screen{
		State: domain.StateLearn,
		Lines: []domain.Line{
			line(domain.ToneTitle, "How GasHawk Works 🚀"),
			line(domain.ToneMuted, "GasHawk predicts optimal transaction timing and protects against MEV attacks"),
		},
		Actions: []domain.Action{
			post("Next: Features", TokenLearnMore),
			post("Skip to Calculator", TokenCalculate),
		},
	}
}

func learnMoreScreen() domain.Screen {
	return domain.Screen{
		State: domain.StateLearnMore,
		Lines: []domain.Line{
			line(domain.ToneTitle, "Key Features ✨"),
			line(domain.ToneAccent, "• Non-custodial & MEV-resistant"),
			line(domain.ToneAccent, "• Custom transaction deadlines"),
			line(domain.ToneAccent, "• Flashbots Protect integration"),
		},
		Actions: []domain.Action{
			post("Calculate Your Savings", TokenCalculate),
			link("Learn More", ProductURL),
		},
	}
}

func inputPromptScreen() domain.Screen {
	return domain.Screen{
		State: domain.StateInputPrompt,
		Lines: []domain.Line{
			line(domain.ToneTitle, "Calculate Your Savings 📊"),
			line(domain.ToneMuted, "Enter your address or try our demo"),
		},
		Input: &domain.TextInput{Placeholder: "0x... or .eth"},
		Actions: []domain.Action{
			post("Calculate Savings", TokenCheck),
			post("Try Demo", TokenExample),
		},
	}
}

func reportScreen(r *domain.SavingsReport) domain.Screen {
	who := r.Address.String()
	if r.Name != "" {
		who = fmt.Sprintf("%s (%s)", r.Name, r.Address)
	}
	est := r.Estimate
	return domain.Screen{
		State: domain.StateReport,
		Lines: []domain.Line{
			line(domain.ToneFineprint, who),
			line(domain.ToneMuted, fmt.Sprintf("You spent %.4f ETH in %d transactions", est.TotalSpent, r.TxCount)),
			line(domain.ToneAccent, fmt.Sprintf("You could have saved %.4f ETH with GasHawk", est.EstimatedSavings)),
			line(domain.ToneMuted, fmt.Sprintf("That's US$%.2f at current ETH price ($%.2f)", est.FiatSavings, est.Rate)),
			line(domain.ToneFineprint, Disclaimer),
		},
		Actions: []domain.Action{
			link("View Transactions", ExplorerURL+r.Address.String()),
			link("Try GasHawk", ProductURL),
			reset("Check Another Address"),
		},
		Report: r,
	}
}

func errorResolutionScreen(message string) domain.Screen {
	return domain.Screen{
		State: domain.StateErrorResolution,
		Lines: []domain.Line{
			line(domain.ToneError, "Invalid Address or ENS"),
			line(domain.ToneMuted, message),
		},
		Actions: []domain.Action{reset("Try Again")},
	}
}

func errorCalculationScreen() domain.Screen {
	return domain.Screen{
		State: domain.StateErrorCalculation,
		Lines: []domain.Line{
			line(domain.ToneError, "Error calculating savings"),
			line(domain.ToneMuted, "Please try again with a valid address"),
		},
		Actions: []domain.Action{reset("Try Again")},
	}
}

func fallbackScreen() domain.Screen {
	return domain.Screen{
		State:   domain.StateFallback,
		Lines:   []domain.Line{line(domain.ToneError, "Please enter a valid address")},
		Actions: []domain.Action{reset("Try Again")},
	}
}
