package subst_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/subst"
)

// The corpus crosses specs with representative values per category. Cases
// live in testdata so new ones can be added without touching test code.

type corpus struct {
	Literals []struct {
		Tmpl string `yaml:"tmpl"`
		Want string `yaml:"want"`
	} `yaml:"literals"`
	Strings []struct {
		Spec string `yaml:"spec"`
		Arg  string `yaml:"arg"`
		Want string `yaml:"want"`
	} `yaml:"strings"`
	Ints []struct {
		Spec string `yaml:"spec"`
		Arg  int64  `yaml:"arg"`
		Want string `yaml:"want"`
	} `yaml:"ints"`
	Uints []struct {
		Spec string `yaml:"spec"`
		Arg  uint64 `yaml:"arg"`
		Want string `yaml:"want"`
	} `yaml:"uints"`
	Floats []struct {
		Spec string  `yaml:"spec"`
		Arg  float64 `yaml:"arg"`
		Want string  `yaml:"want"`
	} `yaml:"floats"`
}

func loadCorpus(t *testing.T) corpus {
	t.Helper()
	data, err := os.ReadFile("testdata/cases.yaml")
	require.NoError(t, err)
	var c corpus
	require.NoError(t, yaml.Unmarshal(data, &c))
	return c
}

func TestCorpus(t *testing.T) {
	t.Parallel()
	c := loadCorpus(t)

	for _, tc := range c.Literals {
		tc := tc
		t.Run("literal/"+tc.Tmpl, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Want, subst.Format(tc.Tmpl))
		})
	}
	for _, tc := range c.Strings {
		tc := tc
		t.Run("string/"+tc.Spec+"/"+tc.Arg, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Want, subst.Format(tc.Spec, tc.Arg))
		})
	}
	for _, tc := range c.Ints {
		tc := tc
		t.Run("int/"+tc.Spec, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Want, subst.Format(tc.Spec, tc.Arg))
		})
	}
	for _, tc := range c.Uints {
		tc := tc
		t.Run("uint/"+tc.Spec, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Want, subst.Format(tc.Spec, tc.Arg))
		})
	}
	for _, tc := range c.Floats {
		tc := tc
		t.Run("float/"+tc.Spec, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.Want, subst.Format(tc.Spec, tc.Arg))
		})
	}
}
