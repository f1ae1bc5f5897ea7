// Package feetable loads the per-brand fee schedules the matchers run
// against. Defaults are compiled in; a directory of JSON files can override
// any brand/class table. A Registry is built once and read-only afterwards.
package feetable

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/merchantiq/feecost/internal/domain"
)

//go:embed data/*.json
var defaults embed.FS

// Brands with published schedules. Amex and Discover have none: lookups for
// them report not-found, which the batch processor records as an unmatched
// business outcome rather than an error.
var tabledBrands = []domain.CardBrand{domain.BrandMastercard, domain.BrandVisa}

// Registry holds the card-level and network-level fee tables per brand.
type Registry struct {
	card    map[domain.CardBrand][]domain.FeeRule
	network map[domain.CardBrand][]domain.NetworkFeeRule
}

// Default builds a Registry from the embedded schedules.
func Default() (*Registry, error) {
	return Load("")
}

// Load builds a Registry, preferring <dir>/<brand>_<class>.json files
// (e.g. mastercard_card.json, visa_network.json) and falling back to the
// embedded defaults for anything absent. An empty dir loads defaults only.
func Load(dir string) (*Registry, error) {
	r := &Registry{
		card:    make(map[domain.CardBrand][]domain.FeeRule),
		network: make(map[domain.CardBrand][]domain.NetworkFeeRule),
	}

	for _, brand := range tabledBrands {
		var cardRules []domain.FeeRule
		if err := loadTable(dir, brand, "card", &cardRules); err != nil {
			return nil, fmt.Errorf("load %s card table: %w", brand, err)
		}
		r.card[brand] = cardRules

		var netRules []domain.NetworkFeeRule
		if err := loadTable(dir, brand, "network", &netRules); err != nil {
			return nil, fmt.Errorf("load %s network table: %w", brand, err)
		}
		r.network[brand] = netRules
	}

	return r, nil
}

func loadTable(dir string, brand domain.CardBrand, class string, out any) error {
	name := fmt.Sprintf("%s_%s.json", strings.ToLower(string(brand)), class)

	if dir != "" {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err == nil {
			if uerr := json.Unmarshal(data, out); uerr != nil {
				return fmt.Errorf("parse override %s: %w", name, uerr)
			}
			return nil
		}
		if !os.IsNotExist(err) {
			return fmt.Errorf("read override %s: %w", name, err)
		}
	}

	data, err := defaults.ReadFile("data/" + name)
	if err != nil {
		return fmt.Errorf("read embedded %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse embedded %s: %w", name, err)
	}
	return nil
}

// CardRules returns the card-level fee table for a brand. ok is false for
// brands with no published schedule.
func (r *Registry) CardRules(brand domain.CardBrand) ([]domain.FeeRule, bool) {
	rules, ok := r.card[brand]
	return rules, ok
}

// NetworkRules returns the network fee table for a brand.
func (r *Registry) NetworkRules(brand domain.CardBrand) ([]domain.NetworkFeeRule, bool) {
	rules, ok := r.network[brand]
	return rules, ok
}
