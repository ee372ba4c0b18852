package cli

import (
	"bufio"
	"io"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestCLI_Serve starts the real "serve" subcommand on an OS-assigned
// port, confirms the Control API it hosts answers GET /, then sends
// itself SIGINT and confirms serve shuts down cleanly (spec §4.5,
// §5's shutdown sequencing).
func TestCLI_Serve(t *testing.T) {
	r, w, err := os.Pipe()
	require.NoError(t, err)
	origStdout := os.Stdout
	os.Stdout = w

	rootCmd.SetArgs([]string{"serve", "--addr", "127.0.0.1:0", "--print-addr", "--pact-dir", t.TempDir()})

	done := make(chan error, 1)
	go func() { done <- rootCmd.Execute() }()

	addrLine := make(chan string, 1)
	go func() {
		line, _ := bufio.NewReader(r).ReadString('\n')
		addrLine <- line
	}()

	var addr string
	select {
	case line := <-addrLine:
		addr = line[:len(line)-1]
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for serve to print its bound address")
	}

	os.Stdout = origStdout
	_ = w.Close()
	go func() { _, _ = io.Copy(io.Discard, r) }()

	resp, err := http.Get("http://" + addr + "/")
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, syscall.Kill(syscall.Getpid(), syscall.SIGINT))

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not shut down after SIGINT")
	}
}
