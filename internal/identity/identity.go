// Package identity computes deterministic identifiers for parsed records.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// Namespace is the UUID v5 namespace for record identities.
// Computed as: uuid.NewSHA1(uuid.NameSpaceDNS, []byte("nidm.nidash.org"))
var Namespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("nidm.nidash.org"))

// Kinds of records that carry an identity.
const (
	KindModelFitting       = "model_parameters_estimation"
	KindParameterEstimate  = "parameter_estimate_map"
	KindContrastEstimation = "contrast_estimation"
	KindInference          = "inference"
	KindCoordinateSpace    = "coordinate_space"
	KindSoftware           = "software"
	KindSearchSpace        = "search_space"
)

// New returns the identity of a record of the given kind, derived from the parts
// that locate it (typically paths relative to the FEAT directory and numbers).
// Parsing the same directory twice, or a copy of it elsewhere, yields the same
// identities.
func New(kind string, parts ...string) string {
	name := kind + ":" + strings.Join(parts, "|")
	return uuid.NewSHA1(Namespace, []byte(name)).String()
}
