package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// syncBuffer is a bytes.Buffer safe for the watcher goroutine and the test
// to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()

	return b.buf.String()
}

func writeMapping(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

const validMapping = `
settings:
  validation: true
121:
  id: identifier
fields:
  - source: address.city
    target: [city, town]
skip: [secret]
`

func TestRun_Usage(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no arguments", nil, exitUsage},
		{"missing path", []string{"check"}, exitUsage},
		{"unknown command", []string{"build", "mapping.yaml"}, exitUsage},
		{"unknown flag", []string{"-nope", "check", "mapping.yaml"}, exitUsage},
		{"help", []string{"-h"}, exitOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer

			assert.Equal(t, tt.want, run(context.Background(), tt.args, &stdout, &stderr))
			assert.Contains(t, stderr.String(), "Usage: bean-transformer")
		})
	}
}

func TestRun_BadLogLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run(context.Background(), []string{"-log-level", "loud", "check", "mapping.yaml"}, &stdout, &stderr)
	assert.Equal(t, exitUsage, code)
	assert.Contains(t, stderr.String(), "failed to initialize logger")
}

func TestRun_Version(t *testing.T) {
	var stdout, stderr bytes.Buffer

	require.Equal(t, exitOK, run(context.Background(), []string{"-version"}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "bean-transformer version dev")
}

func TestRun_Check(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := writeMapping(t, validMapping)
	require.Equal(t, exitOK, run(context.Background(), []string{"check", path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "ok, 2 mapping(s), 1 skipped field(s)")
	assert.Empty(t, stderr.String())
}

func TestRun_CheckErrors(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := writeMapping(t, "version: \"2\"\nfields:\n  - source: \"a..b\"\n    target: x\n")
	require.Equal(t, exitFailure, run(context.Background(), []string{"check", path}, &stdout, &stderr))

	assert.Contains(t, stdout.String(), "unsupported_version")
	assert.Contains(t, stdout.String(), "invalid_source_path")
	assert.Contains(t, stderr.String(), "2 error(s)")
}

func TestRun_CheckWarnings(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := writeMapping(t, "121:\n  id: identifier\nskip: [identifier]\n")
	require.Equal(t, exitOK, run(context.Background(), []string{"check", path}, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "warning: ")
	assert.Contains(t, stdout.String(), "skipped_target")
}

func TestRun_CheckMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := filepath.Join(t.TempDir(), "missing.yaml")
	require.Equal(t, exitFailure, run(context.Background(), []string{"check", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to read mapping file")
}

func TestRun_Print(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := writeMapping(t, validMapping)
	require.Equal(t, exitOK, run(context.Background(), []string{"print", path}, &stdout, &stderr))

	var got effectiveSettings
	require.NoError(t, yaml.Unmarshal(stdout.Bytes(), &got))

	assert.Equal(t, map[string]string{
		"identifier": "id",
		"city":       "address.city",
		"town":       "address.city",
	}, got.Mappings)
	assert.Equal(t, []string{"secret"}, got.Skip)
	assert.True(t, got.Flags["FlagValidation"])
	assert.True(t, got.Flags["FlagDefaultValueForMissingPrimitiveField"])
	assert.False(t, got.Flags["FlagPrimitiveTypeConversion"])
	assert.Len(t, got.Flags, 5)
}

func TestRun_PrintInvalid(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := writeMapping(t, "fields:\n  - source: id\n")
	require.Equal(t, exitFailure, run(context.Background(), []string{"print", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid mapping file")
	assert.Empty(t, stdout.String())
}

func TestRun_Watch(t *testing.T) {
	path := writeMapping(t, "121:\n  id: identifier\n")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var stdout, stderr syncBuffer

	done := make(chan int, 1)
	go func() {
		done <- run(ctx, []string{"-log-level", "debug", "watch", path}, &stdout, &stderr)
	}()

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "identifier: id")
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(path, []byte("121:\n  id: key\n"), 0o600))

	require.Eventually(t, func() bool {
		return strings.Contains(stdout.String(), "key: id")
	}, 2*time.Second, 10*time.Millisecond)

	cancel()

	select {
	case code := <-done:
		assert.Equal(t, exitOK, code)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	assert.GreaterOrEqual(t, strings.Count(stdout.String(), "---\n"), 2)
}

func TestRun_WatchMissingFile(t *testing.T) {
	var stdout, stderr bytes.Buffer

	path := filepath.Join(t.TempDir(), "missing.yaml")
	require.Equal(t, exitFailure, run(context.Background(), []string{"watch", path}, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "failed to start watcher")
}
