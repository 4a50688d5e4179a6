// Package varserver provides a typed Go client for the variable server's
// Redis backend.
//
// # Overview
//
// The variable server holds named, typed variables shared by loosely-coupled
// components. Each variable is described by a VarInfo descriptor: a name, an
// optional GUID, an instance identifier, a typed value with storage length,
// a format specifier, tags, behavioral flags and read/write permission lists.
// Variables are created once, addressed by a server-assigned Handle, and may
// carry additional alias names.
//
// # Core Concepts
//
// VarInfo is the full descriptor submitted at creation time. The client
// validates every descriptor against the server's limits (name, format and
// tag bounds, principal caps) before any write happens.
//
// Handles identify created variables. Handle 0 (InvalidHandle) is never
// issued; operations against it fail immediately.
//
// Instances partition the name space. Two variables may share a name if
// their instance identifiers differ; names and aliases are unique within an
// instance.
//
// # Usage Example
//
//	import "github.com/tjmonk/varcreate/pkg/varserver"
//
//	client, err := varserver.Open("redis://localhost:6379")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	info := &varserver.VarInfo{
//		Name: "sys.temperature",
//		Obj:  varserver.VarObject{Type: varserver.TypeFloat},
//	}
//	if err := client.CreateVar(ctx, info); err != nil {
//		log.Fatal(err)
//	}
//	// info.Handle now addresses the variable
//
// # Redis Schema
//
// Descriptors: varserver:var:{handle}
// Name bindings: varserver:name:{instance_id}:{name}
// Alias bindings: varserver:alias:{instance_id}:{name}
// Handle counter: varserver:handle_seq
//
// Creation events are published to the varserver:var_events Pub/Sub channel
// as JSON-encoded VarEvent objects.
//
// # Error Handling
//
// Every failure wraps one of the package sentinels (ErrExists, ErrNotFound,
// ErrUnknownType, ...) or the underlying transport error. Use errors.Is or
// the IsNotFound/IsExists helpers to classify failures.
package varserver
