package varcreate

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/tjmonk/varcreate/pkg/varserver"
)

// Options is the batch-wide configuration applied to every variable record.
// Construct it once per invocation; it is read-only during processing.
type Options struct {
	// Prefix is prepended to every variable name before creation.
	// The combined name must still fit the server's name limit.
	Prefix string

	// InstanceID is applied to every descriptor in the batch.
	InstanceID uint32

	// Flags are unioned into every descriptor's flags, never overwriting
	// flags set by the record itself.
	Flags varserver.Flags

	// Verbose enables per-variable progress logging.
	Verbose bool

	// ForceDefault, on a creation failure, looks the name up and writes the
	// assembled value to the existing variable instead. A successful write
	// replaces the creation failure as the record's outcome.
	ForceDefault bool
}

// VarServer is the subset of the variable-server client used during batch
// creation. *varserver.Client implements it.
type VarServer interface {
	CreateVar(ctx context.Context, info *varserver.VarInfo) error
	Alias(ctx context.Context, h varserver.Handle, name string) error
	FindByName(ctx context.Context, instanceID uint32, name string) (varserver.Handle, error)
	SetValue(ctx context.Context, h varserver.Handle, obj *varserver.VarObject) error
}

// varsDocument is the top-level shape of a variable configuration source.
// The description is informational and ignored by processing.
type varsDocument struct {
	Description string            `json:"description"`
	Vars        []json.RawMessage `json:"vars"`
}

// CreateFromFile loads a variable configuration file and creates every
// variable it describes. Returns nil only if every record succeeded;
// otherwise the most recent failure. File-level failures (unreadable,
// non-regular, over the size limit) are returned without touching the
// server.
func CreateFromFile(ctx context.Context, srv VarServer, path string, opts *Options) error {
	data, err := readVarFile(path)
	if err != nil {
		return err
	}

	return CreateFromString(ctx, srv, data, opts)
}

// CreateFromString creates every variable described by a pre-loaded JSON
// configuration text. The text must carry a top-level "vars" array; each
// element is processed independently, so a failing record does not stop the
// ones after it. Returns nil only if every record succeeded; otherwise the
// most recent failure.
func CreateFromString(ctx context.Context, srv VarServer, data string, opts *Options) error {
	if srv == nil {
		return fmt.Errorf("variable server cannot be nil")
	}
	if opts == nil {
		return fmt.Errorf("creation options cannot be nil")
	}

	var doc varsDocument
	if err := json.Unmarshal([]byte(data), &doc); err != nil {
		return fmt.Errorf("failed to parse variable configuration: %w", err)
	}

	if doc.Vars == nil {
		return fmt.Errorf("configuration has no \"vars\" array: %w", ErrWrongType)
	}

	return processBatch(ctx, srv, doc.Vars, opts)
}

// processBatch runs every record through the record processor, continuing
// past failures and keeping the most recent one as the batch result.
func processBatch(ctx context.Context, srv VarServer, records []json.RawMessage, opts *Options) error {
	var result error

	for i, raw := range records {
		if err := processRecord(ctx, srv, raw, opts); err != nil {
			log.Printf("[VarCreate] record %d failed: %v", i, err)
			result = err
		}
	}

	return result
}

// processRecord assembles one descriptor from a JSON record and submits it
// for creation.
//
// The attribute table is visited in its fixed order; absent attributes are
// skipped and failed ones are logged while processing continues, keeping the
// most recent failure. After extraction the batch defaults are applied in
// order: flags union, string terminator reservation, instance ID, then name
// prefix. Creation is only attempted when every extraction succeeded, and
// aliases are only processed after a successful creation.
func processRecord(ctx context.Context, srv VarServer, raw json.RawMessage, opts *Options) error {
	var record map[string]json.RawMessage
	if err := json.Unmarshal(raw, &record); err != nil {
		return fmt.Errorf("variable record must be a JSON object: %w", ErrWrongType)
	}

	info := &varserver.VarInfo{}
	var result error

	for _, h := range fieldHandlers {
		rawVal, ok := record[h.attr]
		if !ok {
			continue
		}

		if err := h.fn(info, rawVal); err != nil {
			log.Printf("[VarCreate] attribute %q value %s: %v", h.attr, rawVal, err)
			result = err
		}
	}

	// Batch-wide flags are a default, never an override.
	info.Flags |= opts.Flags

	if info.Obj.Type == varserver.TypeStr && info.Obj.Len > 0 {
		// Reserve one byte for the string terminator.
		info.Obj.Len++
		if s, ok := info.Obj.Val.(string); ok {
			if uint32(len(s))+1 >= info.Obj.Len {
				log.Printf("[VarCreate] variable %q: length %d leaves no room for value %q and its terminator",
					info.Name, info.Obj.Len-1, s)
			}
		}
	}

	info.InstanceID = opts.InstanceID

	if info.Name == "" {
		log.Printf("[VarCreate] record has no usable name, skipping creation")
		return fmt.Errorf("record has no variable name: %w", varserver.ErrMissingName)
	}

	if opts.Prefix != "" {
		if len(opts.Prefix)+len(info.Name) > varserver.MaxNameLength {
			log.Printf("[VarCreate] prefix %q makes name %q exceed %d bytes",
				opts.Prefix, info.Name, varserver.MaxNameLength)
			return fmt.Errorf("name %q with prefix %q is %d bytes, maximum is %d: %w",
				info.Name, opts.Prefix, len(opts.Prefix)+len(info.Name), varserver.MaxNameLength, varserver.ErrTooLong)
		}
		info.Name = opts.Prefix + info.Name
	}

	if result != nil {
		return result
	}

	if opts.Verbose {
		log.Printf("[VarCreate] creating variable %q (type %s, instance %d)",
			info.Name, info.Obj.Type, info.InstanceID)
	}

	if err := srv.CreateVar(ctx, info); err != nil {
		log.Printf("[VarCreate] failed to create variable %q: %v", info.Name, err)
		result = err

		if opts.ForceDefault {
			result = applyDefault(ctx, srv, info, result)
		}

		return result
	}

	if rawAlias, ok := record["alias"]; ok {
		if err := processAlias(ctx, srv, info.Handle, rawAlias); err != nil {
			result = err
		}
	}

	return result
}

// applyDefault is the ForceDefault fallback: when creation fails (typically
// because the variable already exists), find the existing variable and set
// the assembled value on it. A successful write supersedes the creation
// failure; a failed lookup leaves it in place.
func applyDefault(ctx context.Context, srv VarServer, info *varserver.VarInfo, createErr error) error {
	h, err := srv.FindByName(ctx, info.InstanceID, info.Name)
	if err != nil {
		return createErr
	}

	if err := srv.SetValue(ctx, h, &info.Obj); err != nil {
		log.Printf("[VarCreate] failed to set default on existing variable %q: %v", info.Name, err)
		return err
	}

	log.Printf("[VarCreate] set default value on existing variable %q", info.Name)
	return nil
}

// processAlias registers the record's alias names against a created
// variable's handle. A single string registers one alias; an array registers
// each element, continuing past per-element failures and reporting the last
// one. Any other JSON shape is rejected.
func processAlias(ctx context.Context, srv VarServer, h varserver.Handle, raw json.RawMessage) error {
	var name string
	if err := json.Unmarshal(raw, &name); err == nil {
		if err := srv.Alias(ctx, h, name); err != nil {
			log.Printf("[VarCreate] failed to register alias %q: %v", name, err)
			return err
		}
		return nil
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(raw, &entries); err != nil {
		return fmt.Errorf("alias must be a string or an array of strings: %w", ErrWrongType)
	}

	var result error
	for _, entry := range entries {
		var alias string
		if err := json.Unmarshal(entry, &alias); err != nil {
			log.Printf("[VarCreate] alias entry %s is not a string", entry)
			result = fmt.Errorf("alias entry must be a string: %w", ErrWrongType)
			continue
		}

		if err := srv.Alias(ctx, h, alias); err != nil {
			log.Printf("[VarCreate] failed to register alias %q: %v", alias, err)
			result = err
		}
	}

	return result
}
