package varserver

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Serialization helpers for converting between Go structs and Redis hashes
//
// Redis stores descriptors as string-to-string maps (hashes). Scalar fields
// are rendered with strconv; permission arrays are JSON-encoded into single
// hash fields; the value is stored in its canonical string encoding.

// VarInfoToHash converts a VarInfo to Redis hash format.
func VarInfoToHash(v *VarInfo) (map[string]interface{}, error) {
	readJSON, err := json.Marshal(v.Permissions.Read)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal read permissions: %w", err)
	}

	writeJSON, err := json.Marshal(v.Permissions.Write)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal write permissions: %w", err)
	}

	value, err := v.Obj.EncodeValue()
	if err != nil {
		return nil, fmt.Errorf("failed to encode value: %w", err)
	}

	hash := map[string]interface{}{
		"name":        v.Name,
		"guid":        strconv.FormatUint(uint64(v.GUID), 10),
		"instance_id": strconv.FormatUint(uint64(v.InstanceID), 10),
		"type":        v.Obj.Type.String(),
		"len":         strconv.FormatUint(uint64(v.Obj.Len), 10),
		"value":       value,
		"format_spec": v.FormatSpec,
		"tag_spec":    v.TagSpec,
		"flags":       strconv.FormatUint(uint64(v.Flags), 10),
		"read_perms":  string(readJSON),
		"write_perms": string(writeJSON),
		"handle":      strconv.FormatUint(uint64(v.Handle), 10),
	}

	return hash, nil
}

// HashToVarInfo converts a Redis hash back to a VarInfo.
func HashToVarInfo(hash map[string]string) (*VarInfo, error) {
	guid, err := strconv.ParseUint(hash["guid"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid guid field: %w", err)
	}

	instanceID, err := strconv.ParseUint(hash["instance_id"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid instance_id field: %w", err)
	}

	varType, err := TypeNameToType(hash["type"])
	if err != nil {
		return nil, fmt.Errorf("invalid type field: %w", err)
	}

	length, err := strconv.ParseUint(hash["len"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid len field: %w", err)
	}

	val, err := DecodeValue(varType, hash["value"])
	if err != nil {
		return nil, fmt.Errorf("invalid value field: %w", err)
	}

	flags, err := strconv.ParseUint(hash["flags"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid flags field: %w", err)
	}

	handle, err := strconv.ParseUint(hash["handle"], 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid handle field: %w", err)
	}

	var readPerms []uint32
	if readJSON := hash["read_perms"]; readJSON != "" {
		if err := json.Unmarshal([]byte(readJSON), &readPerms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal read_perms: %w", err)
		}
	}

	var writePerms []uint32
	if writeJSON := hash["write_perms"]; writeJSON != "" {
		if err := json.Unmarshal([]byte(writeJSON), &writePerms); err != nil {
			return nil, fmt.Errorf("failed to unmarshal write_perms: %w", err)
		}
	}

	info := &VarInfo{
		Name:       hash["name"],
		GUID:       uint32(guid),
		InstanceID: uint32(instanceID),
		Obj: VarObject{
			Type: varType,
			Len:  uint32(length),
			Val:  val,
		},
		FormatSpec: hash["format_spec"],
		TagSpec:    hash["tag_spec"],
		Flags:      Flags(flags),
		Permissions: Permissions{
			Read:  readPerms,
			Write: writePerms,
		},
		Handle: Handle(handle),
	}

	return info, nil
}
