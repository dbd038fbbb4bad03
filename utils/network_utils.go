// Package utils carries the small set of host-process helpers shared by the
// operator CLI: the local-network-IP lookup and the colorized startup
// banner printed when the debug HTTP server comes up.
//
// Grounded on the teacher's network/startup-banner helper, with the banner
// rewritten to build its colors and clickable hyperlinks through
// github.com/fatih/color's Color.Sprint rather than hand-rolled ANSI escape
// sequences, so the same styling respects NO_COLOR and non-tty output the
// way the rest of the corpus's CLIs do.
package utils

import (
	"fmt"
	"net"
	"strings"

	"github.com/fatih/color"
)

var (
	bannerBold   = color.New(color.Bold, color.FgCyan)
	bannerGreen  = color.New(color.FgGreen)
	bannerYellow = color.New(color.FgYellow)
)

// makeClickableLink creates a clickable terminal link using OSC 8 escape
// sequences (supported by iTerm2, VS Code's terminal, Windows Terminal, and
// most modern terminals), styled with c rather than a raw ANSI code so it
// composes with fatih/color's no-color detection.
func makeClickableLink(url string, c *color.Color) string {
	return fmt.Sprintf("\033]8;;%s\033\\%s\033]8;;\033\\", url, c.Sprint(url))
}

// GetLocalIP returns the local network IP address (preferring ethernet/wifi over localhost)
func GetLocalIP() (string, error) {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "", err
	}

	for _, addr := range addrs {
		// Check if it's an IP network address
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() {
			// Only return IPv4 addresses
			if ipnet.IP.To4() != nil {
				return ipnet.IP.String(), nil
			}
		}
	}

	return "", fmt.Errorf("no local network IP found")
}

// PrintStartupMessage prints a colorized startup message with clickable links
func PrintStartupMessage(address string) {
	port := address
	if strings.HasPrefix(port, ":") {
		port = port[1:]
	} else {
		// Extract port from address like "localhost:8080"
		parts := strings.Split(address, ":")
		if len(parts) > 0 {
			port = parts[len(parts)-1]
		}
	}

	fmt.Println()
	bannerBold.Println("╔════════════════════════════════════════════════════════════╗")
	bannerBold.Println("║  navcore debug server started! Open in your browser:        ║")
	bannerBold.Println("╠════════════════════════════════════════════════════════════╣")

	localhostURL := fmt.Sprintf("http://localhost:%s", port)
	spaces := max(0, 60-len(localhostURL)) - 2
	fmt.Printf("  %s%s\n", makeClickableLink(localhostURL, bannerGreen), strings.Repeat(" ", spaces))

	if localIP, err := GetLocalIP(); err == nil {
		networkURL := fmt.Sprintf("http://%s:%s", localIP, port)
		spaces := max(0, 60-len(networkURL)) - 2
		fmt.Printf("  %s%s\n", makeClickableLink(networkURL, bannerYellow), strings.Repeat(" ", spaces))
	}

	bannerBold.Println("╚════════════════════════════════════════════════════════════╝")
	fmt.Println()
}
