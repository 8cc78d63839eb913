// Package pricing loads the coin prices of insurance add-ons and membership tiers.
package pricing

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"

	"valomarket/internal/domain/entity"
)

type Catalog struct {
	Insurance   []entity.InsuranceOption `yaml:"insurance" json:"insurance"`
	Memberships []entity.MembershipTier  `yaml:"memberships" json:"memberships"`
}

// Default is used when no pricing file is configured.
func Default() *Catalog {
	return &Catalog{
		Insurance: []entity.InsuranceOption{
			{Amount: 0, Days: 0, Label: "No insurance"},
			{Amount: 50, Days: 3, Label: "3 days"},
			{Amount: 100, Days: 7, Label: "7 days"},
			{Amount: 300, Days: 30, Label: "30 days"},
		},
		Memberships: []entity.MembershipTier{
			{Name: "basic", Price: 99, Days: 30},
			{Name: "vip", Price: 199, Days: 30},
			{Name: "premium", Price: 499, Days: 30},
		},
	}
}

// Load reads a catalog from a YAML file. An empty path yields Default.
func Load(file string) (*Catalog, error) {
	if file == "" {
		return Default(), nil
	}

	path := file
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var catalog Catalog
	if err := yaml.Unmarshal(data, &catalog); err != nil {
		return nil, fmt.Errorf("unable to parse pricing catalog: %w", err)
	}

	if err := catalog.validate(); err != nil {
		return nil, err
	}
	return &catalog, nil
}

func (c *Catalog) validate() error {
	hasNone := false
	seen := make(map[int64]bool)
	for i, opt := range c.Insurance {
		if opt.Amount < 0 || opt.Days < 0 {
			return fmt.Errorf("insurance option at index %d must not be negative", i)
		}
		if seen[opt.Amount] {
			return fmt.Errorf("duplicate insurance amount %d", opt.Amount)
		}
		seen[opt.Amount] = true
		if opt.Amount == 0 {
			hasNone = true
		}
	}
	if !hasNone {
		return fmt.Errorf("insurance options must include a zero amount")
	}

	if len(c.Memberships) == 0 {
		return fmt.Errorf("at least one membership tier is required")
	}
	names := make(map[string]bool)
	for i, tier := range c.Memberships {
		if tier.Name == "" || tier.Name == entity.MembershipNone {
			return fmt.Errorf("membership tier at index %d has an invalid name", i)
		}
		if names[tier.Name] {
			return fmt.Errorf("duplicate membership tier %q", tier.Name)
		}
		names[tier.Name] = true
		if tier.Price <= 0 {
			return fmt.Errorf("membership tier %q must have a positive price", tier.Name)
		}
		if tier.Days <= 0 {
			return fmt.Errorf("membership tier %q must last at least one day", tier.Name)
		}
	}
	return nil
}

func (c *Catalog) InsuranceFor(amount int64) (entity.InsuranceOption, bool) {
	for _, opt := range c.Insurance {
		if opt.Amount == amount {
			return opt, true
		}
	}
	return entity.InsuranceOption{}, false
}

func (c *Catalog) Tier(name string) (entity.MembershipTier, bool) {
	for _, tier := range c.Memberships {
		if tier.Name == name {
			return tier, true
		}
	}
	return entity.MembershipTier{}, false
}
