// Package taxonomy holds the recognized category set per transaction kind.
// The mapping is configuration, not code: the source variants each shipped
// a slightly different hard-coded list, so the recognized set is loaded
// from a TOML file with the common superset as the default.
package taxonomy

import (
	"fmt"
	"os"

	"github.com/spf13/viper"

	"hisaab/internal/core"
)

// Taxonomy maps each kind to its recognized categories. Entry forms offer
// these options; the ledger still persists whatever label it is given.
type Taxonomy struct {
	Income  []string `mapstructure:"income"`
	Expense []string `mapstructure:"expense"`
}

// Default returns the built-in category mapping.
func Default() Taxonomy {
	return Taxonomy{
		Income:  []string{"Salary", "Investments", "Other"},
		Expense: []string{"Food", "Rent", "Bills", "Entertainment", "Misc"},
	}
}

// Load reads the mapping from a TOML file, falling back to Default when
// the path is empty or the file does not exist. A present-but-broken file
// is an error: a misconfigured taxonomy should fail loudly, unlike ledger
// data, which self-heals.
func Load(path string) (Taxonomy, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	v.SetDefault("income", Default().Income)
	v.SetDefault("expense", Default().Expense)

	if err := v.ReadInConfig(); err != nil {
		return Taxonomy{}, fmt.Errorf("read taxonomy file: %w", err)
	}
	var tax Taxonomy
	if err := v.Unmarshal(&tax); err != nil {
		return Taxonomy{}, fmt.Errorf("unmarshal taxonomy: %w", err)
	}
	return tax, nil
}

// Categories returns the recognized options for a kind.
func (t Taxonomy) Categories(kind core.Kind) []string {
	switch kind {
	case core.KindIncome:
		return t.Income
	case core.KindExpense:
		return t.Expense
	default:
		return nil
	}
}

// Allowed reports whether the category is in the recognized set for the
// kind. Collaborators use this at entry time; it is advisory for the core.
func (t Taxonomy) Allowed(kind core.Kind, category string) bool {
	for _, c := range t.Categories(kind) {
		if c == category {
			return true
		}
	}
	return false
}
