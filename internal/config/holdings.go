package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"PortfolioSentinel/internal/model"
)

type rawHolding struct {
	Ticker string    `yaml:"ticker"`
	Name   string    `yaml:"name"`
	Qty    yaml.Node `yaml:"qty"`
}

// rawHoldings mirrors the holdings document; "actions" is the legacy name
// of the stocks group.
type rawHoldings struct {
	Stocks  []rawHolding `yaml:"stocks"`
	Actions []rawHolding `yaml:"actions"`
	Cryptos []rawHolding `yaml:"cryptos"`
}

// ParseHoldings parses a YAML or JSON holdings document. On any error both
// groups are empty.
func ParseHoldings(data []byte) (model.Holdings, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return model.Holdings{}, fmt.Errorf("parse holdings: %w", err)
	}
	return DecodeHoldings(&node)
}

// DecodeHoldings converts an already parsed holdings node. An empty node
// means no holdings.
func DecodeHoldings(node *yaml.Node) (model.Holdings, error) {
	if node == nil || node.Kind == 0 {
		return model.Holdings{}, nil
	}
	var raw rawHoldings
	if err := node.Decode(&raw); err != nil {
		return model.Holdings{}, fmt.Errorf("parse holdings: %w", err)
	}

	stocks, err := convert("stocks", append(raw.Stocks, raw.Actions...))
	if err != nil {
		return model.Holdings{}, err
	}
	cryptos, err := convert("cryptos", raw.Cryptos)
	if err != nil {
		return model.Holdings{}, err
	}
	return model.Holdings{Stocks: stocks, Cryptos: cryptos}, nil
}

func convert(group string, items []rawHolding) ([]model.Holding, error) {
	out := make([]model.Holding, 0, len(items))
	for i, it := range items {
		ticker := strings.TrimSpace(it.Ticker)
		if ticker == "" {
			return nil, fmt.Errorf("parse holdings: %s[%d]: ticker is required", group, i)
		}
		name := strings.TrimSpace(it.Name)
		if name == "" {
			name = ticker
		}
		out = append(out, model.Holding{Ticker: ticker, Name: name, Quantity: quantity(it.Qty)})
	}
	return out, nil
}

// quantity defaults to 1 when absent; anything non-numeric becomes NaN.
func quantity(n yaml.Node) float64 {
	if n.Kind == 0 {
		return 1
	}
	if n.Kind != yaml.ScalarNode || n.Tag == "!!null" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(n.Value), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
