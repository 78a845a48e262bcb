// Package variation derives the purchasable combinations of a product from its
// attribute set and reconciles them with the variations that already exist.
//
// Everything here is pure: functions take values, return new slices and never
// mutate their arguments. The host owns the single mutable reference and
// stores what these functions return.
package variation
