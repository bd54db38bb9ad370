package domain

import "strings"

// Canonical status phrases shown to users.
const (
	// StatusDelivered means the carrier reports the parcel as delivered.
	StatusDelivered = "配達完了"
	// StatusUnregistered means the carrier has no record for the tracking number.
	StatusUnregistered = "伝票番号未登録"
	// StatusUnavailable means the page held no recognisable status element.
	StatusUnavailable = "情報取得できませんでした"
	// StatusUnknown means the aggregation API answered without any status field.
	StatusUnknown = "不明"
)

// TrackingResult is the normalized answer to one lookup.
// Both fields are display strings; Time uses "/" between date parts and ":" in times.
type TrackingResult struct {
	// Status is a canonical phrase or the carrier's raw status text.
	Status string `json:"status" example:"配達完了"`
	// Time is the delivery or latest event time, or empty when unavailable.
	Time string `json:"time" example:"2024/12/01 10:30"`
}

// Carrier identifies a parcel carrier.
type Carrier string

// Carriers with a scraping adapter.
const (
	CarrierSagawa  Carrier = "sagawa"
	CarrierYamato  Carrier = "yamato"
	CarrierFukutsu Carrier = "fukutsu"
	CarrierSeino   Carrier = "seino"
	CarrierTonami  Carrier = "tonami"
	CarrierHida    Carrier = "hida"
)

// ParseCarrier normalizes user input into a carrier key.
func ParseCarrier(s string) Carrier {
	return Carrier(strings.ToLower(strings.TrimSpace(s)))
}

var trackingNumberCleaner = strings.NewReplacer("-", "", "ー", "", "−", "", " ", "", "　", "")

// NormalizeTrackingNumber drops the separators carriers print inside tracking numbers.
func NormalizeTrackingNumber(s string) string {
	return trackingNumberCleaner.Replace(strings.TrimSpace(s))
}
