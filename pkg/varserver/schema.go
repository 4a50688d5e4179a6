package varserver

import "fmt"

// Redis key pattern helpers
//
// Variable descriptors live under a single handle-keyed hash; name and alias
// bindings are indexed per instance ID so identically-named variables can
// coexist across instances (see the instance identifier in VarInfo).
//
// Key pattern: varserver:{entity}:{qualifiers}
// Channel pattern: varserver:{event_type}_events

// HandleSeqKey returns the Redis key of the handle allocation counter.
// Handles are allocated with INCR, so the first valid handle is 1 and
// InvalidHandle (0) is never issued.
func HandleSeqKey() string {
	return "varserver:handle_seq"
}

// NameKey returns the Redis key binding a variable name to its handle.
// Pattern: varserver:name:{instance_id}:{name}
func NameKey(instanceID uint32, name string) string {
	return fmt.Sprintf("varserver:name:%d:%s", instanceID, name)
}

// VarKey returns the Redis key for a variable's descriptor hash.
// Pattern: varserver:var:{handle}
func VarKey(h Handle) string {
	return fmt.Sprintf("varserver:var:%d", h)
}

// AliasKey returns the Redis key binding an alias name to a handle.
// Pattern: varserver:alias:{instance_id}:{name}
func AliasKey(instanceID uint32, name string) string {
	return fmt.Sprintf("varserver:alias:%d:%s", instanceID, name)
}

// VarEventsChannel returns the Pub/Sub channel name for creation events.
// Pattern: varserver:var_events
func VarEventsChannel() string {
	return "varserver:var_events"
}
