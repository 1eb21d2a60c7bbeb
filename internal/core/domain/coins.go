package domain

import "strings"

// supportedNetworks lists, per coin, the networks deposits may arrive on.
var supportedNetworks = map[string][]string{
	"BTC":  {"bitcoin"},
	"ETH":  {"erc20"},
	"USDT": {"erc20", "trc20", "bep20"},
	"USDC": {"erc20", "bep20"},
}

// IsSupportedCoin reports whether coin (case-insensitive) can be deposited.
func IsSupportedCoin(coin string) bool {
	_, ok := supportedNetworks[strings.ToUpper(coin)]
	return ok
}

// IsSupportedNetwork reports whether network is valid for coin.
func IsSupportedNetwork(coin, network string) bool {
	for _, n := range supportedNetworks[strings.ToUpper(coin)] {
		if n == strings.ToLower(network) {
			return true
		}
	}
	return false
}
