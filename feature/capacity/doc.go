// Package capacity tracks vehicle cargo capacity.
//
// The journal rarely states capacity outright, so each vehicle context keeps
// an Estimator that ratchets a lower bound up from observed cargo totals
// until an authoritative event (a Loadout report, or the static table for
// auxiliary vehicles) supplies an explicit value. Explicit values are final
// until superseded by another explicit value.
//
// Auxiliary (SRV-class) vehicles never get a Loadout event; their capacities
// come from the enumerated table in vehicles.yaml. Maintaining that table as
// the simulation adds vehicles is an explicit, ongoing obligation documented
// on the Table type.
package capacity
