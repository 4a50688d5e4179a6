// Package varcreate batch-creates named, typed variables in the variable
// server from declarative JSON configuration.
//
// # Overview
//
// A configuration source carries a top-level "vars" array. Each element
// describes one variable through optional attributes (name, guid, type, fmt,
// length, value, tags, flags, description, shortname, read, write, alias);
// the package validates and converts each attribute, applies the batch-wide
// defaults from Options (name prefix, instance ID, default flags) and
// submits the assembled descriptor to the server. On a successful creation
// the record's aliases are registered against the new handle.
//
// # Failure Policy
//
// Processing is deliberately exhaustive: a failed attribute does not stop
// the other attributes of its record, a failed record does not stop the
// records after it, and a failed file in directory mode does not stop the
// remaining files. At every level the most recent failure becomes the
// aggregate result, so a nil return means everything succeeded. Every
// failure is logged with the attribute name and offending value as it
// happens.
//
// Only two conditions abort a whole batch: an unreadable or oversized
// source, and a configuration with no "vars" array. A record that is not a
// JSON object fails as a unit, skipping its attribute processing but not
// the records after it.
//
// # Usage Example
//
//	import (
//		"github.com/tjmonk/varcreate/pkg/varcreate"
//		"github.com/tjmonk/varcreate/pkg/varserver"
//	)
//
//	client, err := varserver.Open("redis://localhost:6379")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	opts := &varcreate.Options{Prefix: "sys.", InstanceID: 1}
//	if err := varcreate.CreateFromFile(ctx, client, "vars.json", opts); err != nil {
//		log.Fatal(err)
//	}
//
// The server dependency is the narrow VarServer interface, so tests can
// substitute a recording implementation for the real client.
package varcreate
