// Package metrics computes the derived fields shown next to warehouse rows:
// per-hospital dispersion scores, percentile ranks, consistency and price
// categories, and percent differences from a group average.
//
// Every function is pure. Values that cannot be computed (a zero average,
// a single observation where a sample deviation is required) are reported
// as an invalid pgtype.Float8 rather than NaN or Inf, and are excluded from
// ranking and bucketing.
package metrics
