// Package ui provides the system tray menu for the SmartClip server.
package ui

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/getlantern/systray"
)

type Tray struct {
	addr   string
	logger *slog.Logger

	statusItem *systray.MenuItem
	jobsItem   *systray.MenuItem

	mu sync.Mutex

	onQuit func()
}

type TrayConfig struct {
	Addr   string
	Logger *slog.Logger
	OnQuit func()
}

func NewTray(cfg TrayConfig) *Tray {
	return &Tray{
		addr:   cfg.Addr,
		logger: cfg.Logger,
		onQuit: cfg.OnQuit,
	}
}

// Run blocks until the tray exits. It must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

func (t *Tray) onReady() {
	systray.SetIcon(iconBytes)
	systray.SetTitle("SmartClip")
	systray.SetTooltip("SmartClip Studio")

	t.statusItem = systray.AddMenuItem("Status: Running", "Current server status")
	t.statusItem.Disable()

	t.jobsItem = systray.AddMenuItem("Jobs: 0", "Jobs known to the server")
	t.jobsItem.Disable()

	addrItem := systray.AddMenuItem(fmt.Sprintf("API: http://%s", t.addr), "Server address")
	addrItem.Disable()

	systray.AddSeparator()

	quitItem := systray.AddMenuItem("Quit", "Quit SmartClip Studio")

	go func() {
		<-quitItem.ClickedCh
		t.logger.Info("quit requested from tray")
		if t.onQuit != nil {
			t.onQuit()
		}
		systray.Quit()
	}()

	t.logger.Info("system tray ready")
}

func (t *Tray) onExit() {
	t.logger.Info("system tray exiting")
}

func (t *Tray) UpdateStatus(status string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.statusItem != nil {
		t.statusItem.SetTitle("Status: " + status)
	}
}

func (t *Tray) UpdateJobCount(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.jobsItem != nil {
		t.jobsItem.SetTitle(fmt.Sprintf("Jobs: %d", count))
	}
}

func (t *Tray) Quit() {
	systray.Quit()
}
