package contracts

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeiToEtherString(t *testing.T) {
	ether := func(s string) *big.Int {
		v, ok := new(big.Int).SetString(s, 10)
		if !ok {
			t.Fatalf("bad big int literal %q", s)
		}
		return v
	}

	tests := []struct {
		name     string
		wei      *big.Int
		expected string
	}{
		{"nil", nil, "0"},
		{"zero", big.NewInt(0), "0"},
		{"one_ether", ether("1000000000000000000"), "1"},
		{"one_and_a_half", ether("1500000000000000000"), "1.5"},
		{"one_wei", big.NewInt(1), "0.000000000000000001"},
		{"trailing_zeros_trimmed", ether("1200000000000000000"), "1.2"},
		{"large_whole", ether("2000000000000000000000"), "2000"},
		{"sub_ether", ether("10000000000000000"), "0.01"},
		{"negative", ether("-1500000000000000000"), "-1.5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeiToEtherString(tt.wei))
		})
	}
}
