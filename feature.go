package wmi

import (
	"sort"
	"strings"
)

// Feature names an optional firmware interface.
type Feature string

const (
	// FeatureELNA is external LNA bypass control.
	FeatureELNA Feature = "elna"
	// FeatureTDLS is TDLS off-channel control and status.
	FeatureTDLS Feature = "tdls"
)

// KnownFeatures lists every feature the registry knows how to attach.
var KnownFeatures = []Feature{FeatureELNA, FeatureTDLS}

// FeatureSet is the set of enabled features.
type FeatureSet map[Feature]bool

// NewFeatureSet enables ff.
func NewFeatureSet(ff ...Feature) FeatureSet {
	fs := FeatureSet{}
	for _, f := range ff {
		fs[f] = true
	}
	return fs
}

// AllFeatures enables every known feature.
func AllFeatures() FeatureSet {
	return NewFeatureSet(KnownFeatures...)
}

// Enabled is safe on a nil set.
func (fs FeatureSet) Enabled(f Feature) bool {
	return fs[f]
}

func (fs FeatureSet) String() string {
	var on []string
	for f, ok := range fs {
		if ok {
			on = append(on, string(f))
		}
	}
	sort.Strings(on)
	return "[" + strings.Join(on, ",") + "]"
}
