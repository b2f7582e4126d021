package models

import "strings"

// VendorCode is the vendor identifier assigned by the external procurement
// system. It is never generated locally.
type VendorCode string

// AgreementCode identifies a master agreement (contract) in the external system.
type AgreementCode string

// CommodityID identifies a commodity in the external system.
type CommodityID string

// PurchaseOrderNumber identifies a purchase order in the external system.
type PurchaseOrderNumber string

// NormalizeCityName trims surrounding whitespace. City names are compared
// case-insensitively through CityKey.
func NormalizeCityName(name string) string {
	return strings.TrimSpace(name)
}

// CityKey returns the case-insensitive lookup key for a city name.
func CityKey(name string) string {
	return strings.ToLower(NormalizeCityName(name))
}
