package commands

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tjmonk/varcreate/pkg/varserver"
)

func resetWatchState(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		watchInstanceID = 0
		watchAll = false
		watchWaitFor = ""
		watchTimeout = 30 * time.Second
		watchServerURL = ""
		watchConfigPath = ""
		for _, name := range []string{"instance", "all", "wait-for", "timeout", "server", "config"} {
			watchCmd.Flags().Lookup(name).Changed = false
		}
	})
}

func TestWatchCommand_WaitForExistingVariable(t *testing.T) {
	resetWatchState(t)
	chdir(t, t.TempDir())

	mr := miniredis.RunT(t)
	client := varserver.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	require.NoError(t, client.CreateVar(context.Background(), &varserver.VarInfo{
		Name: "sys.ready",
		Obj:  varserver.VarObject{Type: varserver.TypeUint16},
	}))

	rootCmd.SetArgs([]string{"watch", "--server", "redis://" + mr.Addr(), "--wait-for", "sys.ready", "--timeout", "3s"})
	assert.NoError(t, rootCmd.Execute())
}

func TestWatchCommand_WaitForTimesOut(t *testing.T) {
	resetWatchState(t)
	chdir(t, t.TempDir())

	mr := miniredis.RunT(t)

	rootCmd.SetArgs([]string{"watch", "--server", "redis://" + mr.Addr(), "--wait-for", "sys.never", "--timeout", "400ms"})
	err := rootCmd.Execute()
	require.Error(t, err)
	assert.Equal(t, "variable did not appear", err.Error())
}

func TestWatchCommand_RejectsPositionalArgs(t *testing.T) {
	resetWatchState(t)

	rootCmd.SetArgs([]string{"watch", "extra"})
	err := rootCmd.Execute()
	require.Error(t, err)
}
