// Package expr provides CEL (Common Expression Language) environments for
// evaluating expressions against customer records.
//
// Expressions have access to one variable:
//   - `customer` (map<string, dyn>): The record, keyed by its JSON field names
//
// And to these functions, in addition to the CEL standard library:
//   - adtsTier(double): The ADTS tier label, e.g. "Excellent"
//   - letterGroup(string): The letter group label, e.g. "A-C"
//   - daysSince(timestamp): Whole days elapsed since the timestamp
package expr
