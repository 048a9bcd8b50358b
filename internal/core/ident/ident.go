// Package ident generates the opaque public identifiers of stored records.
package ident

import (
	"strings"

	"github.com/google/uuid"
)

const (
	PrefixSeed     = "SD"
	PrefixPlot     = "PL"
	PrefixTrial    = "TR"
	PrefixIncident = "IN"
	PrefixProfile  = "UP"
)

// New returns prefix, an underscore and the first 8 hex digits of a random
// UUID in upper case, e.g. SD_3F9A0C1B.
func New(prefix string) string {
	id := uuid.New()
	return prefix + "_" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
