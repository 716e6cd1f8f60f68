// Package domain models the North American brewery dataset and the pure
// functions that turn it into a filterable, colored map.
//
// # Data Source
//
// Breweries arrive as a delimited text file with a header row. Two header
// schemas are accepted:
//
//	15 columns: id, name, brewery_type, address_1, city, state, postal_code,
//	            country, latitude, longitude, phone, website_url, source,
//	            source_state, source_state_code
//	14 columns: the same without "source"
//
// The tabular adapter reports which header names were present; [Normalize]
// uses that list to decide whether "source" is copied. Every other missing
// cell defaults to the empty string.
//
// # Coordinates
//
// Latitude and longitude keep their raw value ([Coord]). Zero is a valid
// coordinate, so absence is never collapsed to 0. A row whose coordinates do
// not parse to finite numbers stays in the canonical set (it is counted and
// filterable) and is dropped only when markers are built ([Markers]).
//
// # Categories
//
// The brewery_type column is the category. Filtering compares the raw value
// exactly. Coloring and cluster aggregation use the category key: lower-cased,
// with the empty string mapped to "unknown" ([CategoryKey]).
//
// Colors come from a curated palette ([DefaultPalette]) whose order is the
// legend order:
//
//	brewpub, taproom, micro, nano, meadery, cidery, location, bar,
//	proprietor, regional, contract, large, planning, closed, unknown
//
// Any key not in the palette resolves to the "unknown" color.
//
// # Folding
//
// Free-text search compares folded strings: canonical decomposition (NFD),
// removal of combining diacritical marks U+0300–U+036F, then lower-casing.
// "Café" and "cafe" fold to the same key. See [Fold].
//
// # Clusters
//
// Grouping nearby markers is the job of a spatial collaborator. Once a group
// exists, [MajorityCategory] picks the category to color it with: members are
// counted in order and the leader changes only when another category strictly
// exceeds it, so ties go to the category that reached the count first.
package domain
