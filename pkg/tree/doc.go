// Package tree installs the managed asset set into a configuration root.
//
// The copy is gated on the marker file: a root that already has main.lua
// is treated as authoritative and left alone, so upgrades never touch a
// user's modules, profiles or themes. A root without the marker receives
// every managed asset found in the distribution.
package tree
