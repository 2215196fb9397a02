package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"

	"github.com/ayusman/mudra/internal/app"
	"github.com/ayusman/mudra/internal/capture"
	"github.com/ayusman/mudra/internal/server"
	"github.com/ayusman/mudra/internal/store"
	"github.com/ayusman/mudra/internal/tray"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	cameraID := flag.Int("camera", -1, "camera device ID (-1 probes devices 0-2)")
	dbPath := flag.String("db", "", "database path (default ~/.mudra/mudra.db)")
	noTray := flag.Bool("no-tray", false, "run headless without the system tray")
	flag.Parse()

	fmt.Println("Mudra - Hand Gesture Control")

	// Initialize the store
	path := *dbPath
	if path == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to get home directory: %v", err)
		}

		dbDir := filepath.Join(homeDir, ".mudra")
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			log.Fatalf("Failed to create data directory: %v", err)
		}
		path = filepath.Join(dbDir, "mudra.db")
	}

	st, err := store.New(path)
	if err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	defer st.Close()

	if err := st.Seed(); err != nil {
		log.Fatalf("Failed to seed default profiles: %v", err)
	}

	device := *cameraID
	if device < 0 {
		device, err = capture.ProbeDevice(2)
		if err != nil {
			log.Printf("No camera found (%v), using device 0", err)
			device = 0
		}
	}

	a := app.New(app.Config{
		Store:    st,
		CameraID: device,
	})
	if err := a.LoadCurrentProfile(); err != nil {
		log.Printf("Failed to load current profile: %v", err)
	}
	a.SetEnabled(true)

	if err := a.Start(); err != nil {
		// Keep the settings UI reachable even without a camera.
		log.Printf("Camera unavailable (%v), detection not running", err)
	}
	defer a.Stop()

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir: webDir,
		Store:     st,
		App:       a,
	})

	fmt.Printf("Starting server on %s\n", *addr)
	go func() {
		if err := srv.ListenAndServe(*addr); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	if *noTray {
		waitForSignal()
		return
	}

	runTray(a, *addr)
}

// runTray wires the tray menu to the app and blocks until Quit.
func runTray(a *app.App, addr string) {
	t := tray.New()
	t.OnToggle(a.SetEnabled)
	t.OnSettings(func() {
		openBrowser(settingsURL(addr))
	})
	a.SetGestureCallback(func(gesture, binding string) {
		t.SetLastGesture(gesture)
	})
	t.SetProfile(a.Status().Profile)

	// Keep the menu in sync with changes made through the web UI.
	go func() {
		for range a.Events().Subscribe() {
			t.SetEnabled(a.IsEnabled())
			t.SetProfile(a.Status().Profile)
		}
	}()

	t.Run()
	log.Println("Shutting down")
}

// waitForSignal blocks until SIGINT or SIGTERM.
func waitForSignal() {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh
	log.Printf("Received %s, shutting down", sig)
}

// settingsURL turns a listen address into a URL a browser can open.
func settingsURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}

// openBrowser opens the URL with the platform's default browser.
func openBrowser(url string) {
	var cmd string
	var args []string

	switch runtime.GOOS {
	case "darwin":
		cmd = "open"
		args = []string{url}
	case "linux":
		cmd = "xdg-open"
		args = []string{url}
	case "windows":
		cmd = "cmd"
		args = []string{"/c", "start", url}
	default:
		log.Printf("Unsupported platform: %s", runtime.GOOS)
		return
	}

	if err := exec.Command(cmd, args...).Start(); err != nil {
		log.Printf("Failed to open browser: %v", err)
	}
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.mudra/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".mudra", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
