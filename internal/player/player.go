// Package player opens embed URLs in an external program.
// Programs are started with explicit argument slices; nothing goes through a shell.
package player

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"tontonin/internal/httputil"
)

// Launcher opens a playback page.
type Launcher interface {
	// Open starts the program for url. title is a display hint.
	Open(url, title string) error

	// Name returns the launcher name.
	Name() string

	// Available checks if the program exists in PATH.
	Available() bool
}

// runner starts a program; replaced in tests.
type runner func(name string, args ...string) error

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	return cmd.Start()
}

func runAttached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin
	if err := cmd.Run(); err != nil {
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return err
	}
	return nil
}

// program is a launcher backed by one binary.
type program struct {
	name string
	bin  string
	args func(url, title string) []string
	run  runner
}

func (p *program) Name() string { return p.name }

func (p *program) Available() bool {
	_, err := exec.LookPath(p.bin)
	return err == nil
}

func (p *program) Open(url, title string) error {
	if err := httputil.ValidateURL(url); err != nil {
		return fmt.Errorf("refusing to open: %w", err)
	}
	if err := p.run(p.bin, p.args(url, title)...); err != nil {
		return fmt.Errorf("running %s: %w", p.name, err)
	}
	return nil
}

// New creates a launcher by name: browser, mpv, vlc, iina or celluloid.
// Unknown names fall back to the system browser.
func New(name string) Launcher {
	return newWith(name, runtime.GOOS, nil)
}

func newWith(name, goos string, run runner) Launcher {
	name = strings.ToLower(strings.TrimSpace(name))
	switch name {
	case "mpv", "iina", "celluloid":
		if run == nil {
			run = runAttached
		}
		return &program{name: name, bin: name, run: run, args: func(url, title string) []string {
			return []string{url, "--force-media-title=" + title}
		}}
	case "vlc":
		if run == nil {
			run = runAttached
		}
		return &program{name: name, bin: name, run: run, args: func(url, title string) []string {
			return []string{url, "--meta-title=" + title, "--play-and-exit"}
		}}
	}

	if run == nil {
		run = startDetached
	}
	p := &program{name: "browser", run: run, args: func(url, _ string) []string {
		return []string{url}
	}}
	switch goos {
	case "darwin":
		p.bin = "open"
	case "windows":
		p.bin = "rundll32"
		p.args = func(url, _ string) []string {
			return []string{"url.dll,FileProtocolHandler", url}
		}
	default:
		p.bin = "xdg-open"
	}
	return p
}
