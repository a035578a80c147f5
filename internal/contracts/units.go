package contracts

import (
	"math/big"
	"strings"
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// WeiToEtherString converts a wei amount into a decimal ether string, with
// trailing zeros trimmed ("1.5", "0.000000000000000001", "2"). Monetary
// values cross the API boundary in this form; callers never see raw wei
// except alongside it.
func WeiToEtherString(wei *big.Int) string {
	if wei == nil || wei.Sign() == 0 {
		return "0"
	}

	sign := ""
	abs := new(big.Int).Abs(wei)
	if wei.Sign() < 0 {
		sign = "-"
	}

	whole := new(big.Int)
	frac := new(big.Int)
	whole.QuoRem(abs, weiPerEther, frac)

	if frac.Sign() == 0 {
		return sign + whole.String()
	}

	fracStr := strings.TrimRight(leftPad(frac.String(), 18), "0")
	return sign + whole.String() + "." + fracStr
}

func leftPad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat("0", width-len(s)) + s
}
