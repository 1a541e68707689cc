// Package geo defines the boundary data model for orbis.
// A Feature is one country's polygon geometry plus its name, loaded once
// from a GeoJSON feature collection and treated as immutable afterwards.
package geo
