package dedupe

// Package dedupe provides shared singleflight groups used to collapse
// concurrent identical reads. Only one query runs for a given key while
// other callers wait for its result.

import "golang.org/x/sync/singleflight"

// RankingGroup deduplicates ranking queries keyed by the requested size
// (e.g. "ranking:50"), so a burst of clients refreshing the leaderboard
// costs one database round trip.
var RankingGroup singleflight.Group
