//go:build windows

package main

import (
	"golang.org/x/sys/windows"
)

// enableDPIAwareness sets per-monitor DPI awareness so screenshot pixels and
// injected click coordinates share one coordinate space.
func enableDPIAwareness() {
	// Prefer per-monitor DPI awareness via Shcore.SetProcessDpiAwareness (Win 8.1+)
	const processPerMonitorDPIAware = 2
	shcore := windows.NewLazySystemDLL("Shcore.dll")
	setProcessDpiAwareness := shcore.NewProc("SetProcessDpiAwareness")
	if err := setProcessDpiAwareness.Find(); err == nil {
		_, _, _ = setProcessDpiAwareness.Call(uintptr(processPerMonitorDPIAware))
		return
	}
	// Fallback: user32.SetProcessDPIAware (Vista+)
	user32 := windows.NewLazySystemDLL("user32.dll")
	setProcessDPIAware := user32.NewProc("SetProcessDPIAware")
	if err := setProcessDPIAware.Find(); err == nil {
		_, _, _ = setProcessDPIAware.Call()
	}
}
