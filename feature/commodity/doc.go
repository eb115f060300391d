// Package commodity maps raw, possibly-localized commodity identifiers to
// canonical keys.
//
// Journal events are inconsistent about spelling: the same good can appear as
// "Gold", "gold", or the localization token "$gold_name;". Normalize collapses
// all of these onto one canonical symbol so inventory aggregation works.
//
// Unrecognized identifiers never fail: they produce a fallback key that keeps
// the raw string for display but reports Known() == false, so an unknown good
// can never silently merge with a known one.
//
// The known/rare index is loaded from the FDevIDs CSV files when present.
package commodity
