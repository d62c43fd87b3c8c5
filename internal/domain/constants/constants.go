// Package constants collects cross-cutting literals shared by delivery and infra.
package constants

import "strings"

// Deployment environments.
const (
	EnvDevelop    = "develop"
	EnvProduction = "production"
)

// PubSub provider selection, matched against config.
const (
	PubSubProviderNone   = "none"
	PubSubProviderLocal  = "local"
	PubSubProviderGoogle = "google"
)

// PrimaryLeadSource is the marketing channel whose deals settle revenue
// through the shared company ledger. Other sources keep revenue with the
// selling rep and never create revenue transactions.
const PrimaryLeadSource = "MKT Group"

// IsPrimaryLeadSource reports whether a lead source belongs to the
// marketing channel. Legacy rows carry free-form variants such as
// "MKT - Facebook", so a substring match is used.
func IsPrimaryLeadSource(source string) bool {
	return strings.Contains(strings.ToUpper(source), "MKT")
}

// PaidMarker is appended to a dealer debt reason once the debt is collected.
// Ledger projection treats rows without the marker as outstanding.
const PaidMarker = " (Đã thu)"
