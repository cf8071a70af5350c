// Package inventory models the local branches of a repository and classifies them.
//
// A Collection is an immutable snapshot built once per command invocation. The
// Select functions are pure filters over a Collection that preserve its
// presentation order and never return nil.
package inventory
