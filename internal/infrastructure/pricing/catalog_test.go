package pricing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	for _, amount := range []int64{0, 50, 100, 300} {
		_, ok := c.InsuranceFor(amount)
		assert.True(t, ok, "insurance %d", amount)
	}
	_, ok := c.InsuranceFor(75)
	assert.False(t, ok)

	opt, _ := c.InsuranceFor(100)
	assert.Equal(t, 7, opt.Days)

	tier, ok := c.Tier("vip")
	require.True(t, ok)
	assert.Equal(t, 30, tier.Days)
	assert.NoError(t, c.validate())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pricing.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
insurance:
  - amount: 0
  - amount: 20
    days: 1
    label: "1 day"
memberships:
  - name: gold
    price: 150
    days: 30
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)

	opt, ok := c.InsuranceFor(20)
	require.True(t, ok)
	assert.Equal(t, 1, opt.Days)

	tier, ok := c.Tier("gold")
	require.True(t, ok)
	assert.Equal(t, int64(150), tier.Price)

	_, ok = c.Tier("vip")
	assert.False(t, ok)
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := map[string]string{
		"no zero insurance": "insurance:\n  - amount: 50\nmemberships:\n  - {name: vip, price: 10, days: 30}\n",
		"no tiers":          "insurance:\n  - amount: 0\n",
		"free tier":         "insurance:\n  - amount: 0\nmemberships:\n  - {name: vip, price: 0, days: 30}\n",
		"none tier":         "insurance:\n  - amount: 0\nmemberships:\n  - {name: none, price: 5, days: 30}\n",
		"bad yaml":          "insurance: [",
	}

	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
