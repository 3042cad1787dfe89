package transaction

import (
	"math/big"

	"github.com/shopspring/decimal"

	"xrpl-signer/pkg/errno"
)

// DropsPerXRP 1 XRP = 1,000,000 drops
const DropsPerXRP = 1_000_000

const xrpDecimals = 6

// XRPToDrops 把十进制 XRP 数额 (如 "22.5") 转为 drops
func XRPToDrops(xrp string) (uint64, error) {
	d, err := decimal.NewFromString(xrp)
	if err != nil {
		return 0, errno.ErrUnencodableValue.WithField("Amount")
	}
	drops := d.Shift(xrpDecimals)
	max := decimal.NewFromBigInt(new(big.Int).SetUint64(MaxDrops), 0)
	if drops.IsNegative() || !drops.IsInteger() || drops.GreaterThan(max) {
		return 0, errno.ErrFieldOutOfRange.WithField("Amount")
	}
	return drops.BigInt().Uint64(), nil
}

// DropsToXRP 把 drops 转为十进制 XRP 字符串
func DropsToXRP(drops uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(drops), -xrpDecimals).String()
}
