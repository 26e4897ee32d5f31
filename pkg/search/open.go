package search

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// NoBrowserEnv suppresses OpenURL when set.
const NoBrowserEnv = "NOTEBOX_NO_BROWSER"

// OpenURL opens url with the platform's default handler without waiting
// for it.
func OpenURL(url string) error {
	if os.Getenv(NoBrowserEnv) != "" {
		return nil
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "linux", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("xdg-open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		return fmt.Errorf("search: unsupported platform %s", runtime.GOOS)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("search: open %s: %w", url, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
