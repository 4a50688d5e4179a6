package watch

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tjmonk/varcreate/pkg/varserver"
)

// WaitForVar polls until a variable with the given name can be resolved in
// the instance. Returns the variable's handle, or an error if the timeout
// expires first. Polls every 200ms for the specified timeout duration.
func WaitForVar(ctx context.Context, client *varserver.Client, instanceID uint32, name string, timeout time.Duration) (varserver.Handle, error) {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	timeoutCh := time.After(timeout)

	for {
		select {
		case <-ctx.Done():
			return varserver.InvalidHandle, ctx.Err()

		case <-timeoutCh:
			return varserver.InvalidHandle, fmt.Errorf("timeout waiting for variable %q after %v", name, timeout)

		case <-ticker.C:
			h, err := client.FindByName(ctx, instanceID, name)
			if err != nil {
				if varserver.IsNotFound(err) {
					// Not registered yet, continue polling
					continue
				}
				return varserver.InvalidHandle, fmt.Errorf("failed to look up variable: %w", err)
			}

			return h, nil
		}
	}
}

// StreamEvents subscribes to variable creation events and writes one line
// per event until the context is cancelled. Events from other instances are
// skipped unless all is true.
func StreamEvents(ctx context.Context, client *varserver.Client, instanceID uint32, all bool, w io.Writer) error {
	sub, err := client.SubscribeVarEvents(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to variable events: %w", err)
	}
	defer sub.Close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-sub.Events():
			if !ok {
				return nil
			}
			if !all && ev.InstanceID != instanceID {
				continue
			}
			ts := time.UnixMilli(ev.CreatedAtMs).UTC().Format(time.RFC3339)
			fmt.Fprintf(w, "%s  created [%d] %s (handle %d)\n", ts, ev.InstanceID, ev.Name, ev.Handle)

		case err, ok := <-sub.Errors():
			if !ok {
				return nil
			}
			return fmt.Errorf("event stream failed: %w", err)
		}
	}
}
