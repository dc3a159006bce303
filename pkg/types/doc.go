// Package types defines the core data structures shared across the
// recommendation pipeline: queries, products, offers, reviews and
// recommendation results.
package types
