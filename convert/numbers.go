package convert

import (
	"math"
)

func TwoDecimals(number float64) float64 {
	return RoundFloat64(number, 2)
}

func RoundFloat64(number float64, decimals int) float64 {
	p := math.Pow10(decimals)
	return math.Round(number*p) / p
}

// MWh2KWh converts a price per MWh, as published by the market, into a price per kWh.
func MWh2KWh(pricePerMWh float64) float64 {
	return pricePerMWh / 1e3
}
