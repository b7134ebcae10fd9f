// Package rule selects and highlights customers with CEL expressions.
//
// A [Rule] assigns a display token to the customers it matches, and a
// [Filter] keeps only the customers its expression accepts. See
// [github.com/macropower/leads/pkg/expr] for the expression environment.
package rule
