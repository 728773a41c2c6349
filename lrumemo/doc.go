/*
Copyright © 2024 Acronis International GmbH.

Released under MIT license.
*/

// Package lrumemo provides memoization of pure functions with a bounded number of results,
// LRU eviction policy, and Prometheus metrics.
package lrumemo
