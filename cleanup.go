package main

import (
	"os"
	"os/signal"
	"sync"
	"syscall"
)

// Process-wide registry of transient artifacts to release on abnormal
// termination. Normal code paths release their artifacts directly; the
// registry only exists so an interrupt mid-prompt does not leak files.
var (
	cleanupMu    sync.Mutex
	cleanupFuncs = map[int]func(){}
	cleanupNext  int
)

func registerCleanup(fn func()) (deregister func()) {
	cleanupMu.Lock()
	defer cleanupMu.Unlock()
	id := cleanupNext
	cleanupNext++
	cleanupFuncs[id] = fn
	return func() {
		cleanupMu.Lock()
		defer cleanupMu.Unlock()
		delete(cleanupFuncs, id)
	}
}

func runCleanups() {
	cleanupMu.Lock()
	funcs := make([]func(), 0, len(cleanupFuncs))
	for _, fn := range cleanupFuncs {
		funcs = append(funcs, fn)
	}
	cleanupFuncs = map[int]func(){}
	cleanupMu.Unlock()
	for _, fn := range funcs {
		fn()
	}
}

func installCleanupHandler() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-ch
		runCleanups()
		os.Exit(1)
	}()
}

// captureOutputFile writes command output to a scoped temp file for the
// duration of one display step. The returned release func removes the file
// and is safe to call more than once.
func captureOutputFile(output string) (string, func(), error) {
	file, err := os.CreateTemp("", "gsafe-output-*.log")
	if err != nil {
		return "", nil, err
	}
	path := file.Name()
	if _, err := file.WriteString(output); err != nil {
		_ = file.Close()
		_ = os.Remove(path)
		return "", nil, err
	}
	if err := file.Close(); err != nil {
		_ = os.Remove(path)
		return "", nil, err
	}

	var once sync.Once
	deregister := registerCleanup(func() { _ = os.Remove(path) })
	release := func() {
		once.Do(func() {
			deregister()
			_ = os.Remove(path)
		})
	}
	return path, release, nil
}
