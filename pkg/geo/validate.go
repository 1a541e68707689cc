package geo

import (
	"fmt"

	"github.com/paulmach/orb"
)

// ValidationSeverity indicates whether a finding makes a feature unusable or
// is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // feature cannot be meshed or scored reliably
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Feature  string             // feature name (empty if unnamed)
	Polygon  int                // sub-polygon index, -1 if feature-level
	Ring     int                // ring index within the polygon, -1 if polygon-level
	Message  string             // human-readable description
	Severity ValidationSeverity // error or warning
}

func (e ValidationError) Error() string {
	if e.Polygon < 0 {
		return fmt.Sprintf("[%s] %q: %s", e.Severity, e.Feature, e.Message)
	}
	return fmt.Sprintf("[%s] %q polygon %d ring %d: %s", e.Severity, e.Feature, e.Polygon, e.Ring, e.Message)
}

// ValidationResult bundles errors and warnings for one feature.
type ValidationResult struct {
	Errors   []ValidationError
	Warnings []ValidationError
}

// OK reports whether no errors were found.
func (r ValidationResult) OK() bool {
	return len(r.Errors) == 0
}

// Validate checks a feature against the boundary data invariants: a name, a
// polygonal geometry, and closed rings of at least four coordinates. Warnings
// flag coordinates outside the lon/lat domain and repeated vertices. It never
// mutates the feature.
func Validate(f *Feature) ValidationResult {
	var result ValidationResult
	if f == nil {
		result.Errors = append(result.Errors, featureError("", "feature is nil"))
		return result
	}

	if f.Name == "" {
		result.Errors = append(result.Errors, featureError(f.Name, "feature has no name"))
	}
	if !f.IsPolygonal() {
		result.Errors = append(result.Errors, featureError(f.Name,
			fmt.Sprintf("unsupported geometry type %T", f.Geometry)))
		return result
	}

	polys := f.Polygons()
	if len(polys) == 0 {
		result.Errors = append(result.Errors, featureError(f.Name, "geometry has no polygons"))
	}
	for pi, poly := range polys {
		if len(poly) == 0 {
			result.Errors = append(result.Errors, ValidationError{
				Feature: f.Name, Polygon: pi, Ring: -1,
				Message: "polygon has no rings", Severity: SeverityError,
			})
			continue
		}
		for ri, ring := range poly {
			errs, warnings := validateRing(f.Name, pi, ri, ring)
			result.Errors = append(result.Errors, errs...)
			result.Warnings = append(result.Warnings, warnings...)
		}
	}

	return result
}

func featureError(name, msg string) ValidationError {
	return ValidationError{Feature: name, Polygon: -1, Ring: -1, Message: msg, Severity: SeverityError}
}

// validateRing checks closure, length and coordinate ranges of one ring.
func validateRing(name string, pi, ri int, ring orb.Ring) ([]ValidationError, []ValidationError) {
	var errs, warnings []ValidationError
	mk := func(sev ValidationSeverity, msg string) ValidationError {
		return ValidationError{Feature: name, Polygon: pi, Ring: ri, Message: msg, Severity: sev}
	}

	if len(ring) < 4 {
		errs = append(errs, mk(SeverityError,
			fmt.Sprintf("ring has %d coordinates, need at least 4", len(ring))))
	}
	if len(ring) > 0 && !ring.Closed() {
		errs = append(errs, mk(SeverityError, "ring is not closed"))
	}

	for i, p := range ring {
		if p.Lon() < -180 || p.Lon() > 180 || p.Lat() < -90 || p.Lat() > 90 {
			warnings = append(warnings, mk(SeverityWarning,
				fmt.Sprintf("coordinate %d (%.6f, %.6f) is outside the lon/lat domain", i, p.Lon(), p.Lat())))
			break
		}
	}

	open := OpenRing(ring)
	for i := 1; i < len(open); i++ {
		if open[i] == open[i-1] {
			warnings = append(warnings, mk(SeverityWarning,
				fmt.Sprintf("coordinate %d repeats the previous vertex", i)))
			break
		}
	}

	return errs, warnings
}
