package main

import (
	"bytes"
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(newRootOptions())
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestGenerateWithMockBackend(t *testing.T) {
	t.Setenv("BRIEFIUM_PROVIDER", "mock")

	out, err := runCLI(t, "generate", "--raw",
		"--topic", "benefits of content marketing",
		"--keywords", "SEO, branding",
		"--tone", "Professional",
		"--word-count", "1510",
		"--page-type", "Blog Post / Article",
		"--user-intent", "Informational (Know)",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "# Sample Content Brief")
	assert.Contains(t, out, "**Main Topic / Primary Keyword:** benefits of content marketing")
	assert.Contains(t, out, "Approximately 1500 words")
}

func TestGenerateRequiresTopic(t *testing.T) {
	t.Setenv("BRIEFIUM_PROVIDER", "mock")

	_, err := runCLI(t, "generate", "--raw", "--tone", "Witty")
	require.Error(t, err)
	assert.Equal(t, "Main Topic / Primary Keyword is a required field.", err.Error())
}

func TestGenerateFailsWithoutAPIKey(t *testing.T) {
	t.Setenv("BRIEFIUM_PROVIDER", "gemini")
	t.Setenv("GOOGLE_API_KEY", "")

	_, err := runCLI(t, "generate", "--topic", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_API_KEY")
}

func TestRunServerStopsWhenContextDone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- runServer(ctx, "127.0.0.1:0", http.NotFoundHandler(), zap.NewNop())
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestRunServerReportsListenError(t *testing.T) {
	err := runServer(context.Background(), "256.0.0.1:bad", http.NotFoundHandler(), zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "server error")
}
