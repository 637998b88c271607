// Package toml implements the TOML subset used by spawnbench files
//
// Supported: comments, bare and quoted keys, dotted keys, [table] headers,
// basic strings, integers, floats, booleans and inline arrays of scalars.
// Not supported: arrays of tables, inline tables, literal and multi-line
// strings, dates.
package toml
