package util

import (
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
)

// Workspaces tracks the transient chapter directories currently on disk so an
// interrupt can remove them.
type Workspaces struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

func NewWorkspaces() *Workspaces {
	return &Workspaces{paths: map[string]struct{}{}}
}

func (w *Workspaces) Add(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.paths[path] = struct{}{}
}

func (w *Workspaces) Remove(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	delete(w.paths, path)
}

func (w *Workspaces) Active() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.paths))
	for p := range w.paths {
		out = append(out, p)
	}
	sort.Strings(out)

	return out
}

// CleanupAll removes every tracked workspace and forgets it.
func (w *Workspaces) CleanupAll() {
	for _, p := range w.Active() {
		if err := os.RemoveAll(p); err != nil {
			fmt.Printf("Error cleaning up %s: %v\n", p, err)
		} else {
			fmt.Printf("Removed %s\n", p)
		}
		w.Remove(p)
	}
}

// SetupInterruptHandler removes in-flight workspaces on SIGINT/SIGTERM, runs
// onExit (typically releasing the output lock) and exits with status 1.
func SetupInterruptHandler(ws *Workspaces, onExit func()) {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sig
		fmt.Println("\nInterrupt received. Cleaning up...")

		ws.CleanupAll()
		if onExit != nil {
			onExit()
		}
		fmt.Println("\nExiting due to interrupt.")

		os.Exit(1)
	}()
}
