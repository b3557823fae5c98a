package main

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	root := newRootCmd()

	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	assert.Subset(t, names, []string{"serve", "migrate", "reset"})
}

func TestResetMemoryBackend(t *testing.T) {
	t.Setenv("NOTES_STORAGE_BACKEND", "memory")

	root := newRootCmd()
	root.SetArgs([]string{"reset"})

	require.NoError(t, root.ExecuteContext(context.Background()))
}

func TestExecuteUnknownBackend(t *testing.T) {
	t.Setenv("NOTES_STORAGE_BACKEND", "cassandra")

	root := newRootCmd()
	root.SetArgs([]string{"reset"})

	require.Error(t, root.ExecuteContext(context.Background()))
}

func occupyPort(t *testing.T) *net.TCPAddr {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	t.Cleanup(func() { _ = ln.Close() })
	return ln.Addr().(*net.TCPAddr)
}

func TestListenReturnsBindError(t *testing.T) {
	addr := occupyPort(t)

	serveErr, err := listen(fiber.New(), addr.String())

	require.Error(t, err)
	assert.Nil(t, serveErr)
}

func TestServeFailsWhenPortIsTaken(t *testing.T) {
	addr := occupyPort(t)
	t.Setenv("NOTES_STORAGE_BACKEND", "memory")
	t.Setenv("NOTES_HTTP_HOST", "127.0.0.1")
	t.Setenv("NOTES_HTTP_PORT", strconv.Itoa(addr.Port))

	root := newRootCmd()
	root.SetArgs([]string{"serve"})

	err := root.ExecuteContext(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrStartHTTPServer)
}
