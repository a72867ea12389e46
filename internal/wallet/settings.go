package wallet

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/fudscan-ai/fudscan-webapp-sub001/internal/config"
)

// Preference mirrors the Coinbase Wallet SDK connector preference option.
type Preference string

const (
	PreferenceAll             Preference = "all"
	PreferenceSmartWalletOnly Preference = "smartWalletOnly"
	PreferenceEOAOnly         Preference = "eoaOnly"
)

type Chain struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// knownChains are the chains the front-end ships transports for.
var knownChains = map[uint64]string{
	1:        "Ethereum",
	10:       "OP Mainnet",
	137:      "Polygon",
	8453:     "Base",
	42161:    "Arbitrum One",
	84532:    "Base Sepolia",
	11155111: "Sepolia",
}

// Settings is the validated wallet connector configuration handed to the
// front-end.
type Settings struct {
	AppName    string     `json:"app_name"`
	AppLogoURL string     `json:"app_logo_url,omitempty"`
	Preference Preference `json:"preference"`
	Chains     []Chain    `json:"chains"`
}

func NewSettings(cfg config.WalletConfig) (*Settings, error) {
	if cfg.AppName == "" {
		return nil, errors.New("wallet: app name is required")
	}
	if cfg.AppLogoURL != "" {
		u, err := url.Parse(cfg.AppLogoURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("wallet: app logo url %q must be absolute", cfg.AppLogoURL)
		}
	}

	preference := Preference(cfg.Preference)
	switch preference {
	case PreferenceAll, PreferenceSmartWalletOnly, PreferenceEOAOnly:
	default:
		return nil, fmt.Errorf("wallet: unknown connector preference %q", cfg.Preference)
	}

	if len(cfg.Chains) == 0 {
		return nil, errors.New("wallet: at least one chain is required")
	}
	seen := make(map[uint64]bool, len(cfg.Chains))
	chains := make([]Chain, 0, len(cfg.Chains))
	for _, id := range cfg.Chains {
		name, ok := knownChains[id]
		if !ok {
			return nil, fmt.Errorf("wallet: unsupported chain id %d", id)
		}
		if seen[id] {
			return nil, fmt.Errorf("wallet: duplicate chain id %d", id)
		}
		seen[id] = true
		chains = append(chains, Chain{ID: id, Name: name})
	}

	return &Settings{
		AppName:    cfg.AppName,
		AppLogoURL: cfg.AppLogoURL,
		Preference: preference,
		Chains:     chains,
	}, nil
}
