package varserver

import (
	"strings"
	"testing"
)

// TestNameKey tests name binding key generation
func TestNameKey(t *testing.T) {
	key := NameKey(0, "sys.temperature")

	expected := "varserver:name:0:sys.temperature"
	if key != expected {
		t.Errorf("NameKey() = %q, expected %q", key, expected)
	}

	if !strings.HasPrefix(key, "varserver:") {
		t.Error("name key should start with 'varserver:'")
	}
	if !strings.Contains(key, ":name:") {
		t.Error("name key should contain ':name:'")
	}
}

// TestVarKey tests descriptor key generation
func TestVarKey(t *testing.T) {
	key := VarKey(Handle(42))

	expected := "varserver:var:42"
	if key != expected {
		t.Errorf("VarKey() = %q, expected %q", key, expected)
	}
}

// TestAliasKey tests alias binding key generation
func TestAliasKey(t *testing.T) {
	key := AliasKey(7, "temp")

	expected := "varserver:alias:7:temp"
	if key != expected {
		t.Errorf("AliasKey() = %q, expected %q", key, expected)
	}

	if !strings.Contains(key, ":alias:") {
		t.Error("alias key should contain ':alias:'")
	}
}

// TestHandleSeqKey tests the handle counter key
func TestHandleSeqKey(t *testing.T) {
	if HandleSeqKey() != "varserver:handle_seq" {
		t.Errorf("HandleSeqKey() = %q, expected %q", HandleSeqKey(), "varserver:handle_seq")
	}
}

// TestVarEventsChannel tests the creation event channel name
func TestVarEventsChannel(t *testing.T) {
	channel := VarEventsChannel()

	if channel != "varserver:var_events" {
		t.Errorf("VarEventsChannel() = %q, expected %q", channel, "varserver:var_events")
	}
	if !strings.HasSuffix(channel, "_events") {
		t.Error("events channel should end with '_events'")
	}
}

// TestInstanceNamespacing tests that different instance IDs produce different keys
func TestInstanceNamespacing(t *testing.T) {
	key1 := NameKey(0, "temp")
	key2 := NameKey(1, "temp")

	if key1 == key2 {
		t.Error("name keys for different instances should be different")
	}

	alias1 := AliasKey(0, "t")
	alias2 := AliasKey(1, "t")

	if alias1 == alias2 {
		t.Error("alias keys for different instances should be different")
	}

	// A name and an alias binding must never share a key
	if NameKey(0, "temp") == AliasKey(0, "temp") {
		t.Error("name and alias keys should be distinct for the same name")
	}
}
