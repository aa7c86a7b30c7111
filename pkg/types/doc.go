// Package types defines the games, save formats, Reference Database interfaces,
// entry records, field-name constants and standard errors shared by the pkmn
// engine, its codecs and its database backends.
package types
