package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/waftester/wpvane/pkg/defaults"
)

var (
	noColorMode bool
	uiMu        sync.RWMutex
)

// SetNoColor disables colored output for every style in this package.
func SetNoColor(noColor bool) {
	uiMu.Lock()
	defer uiMu.Unlock()
	noColorMode = noColor
	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// IsNoColor returns whether color is disabled.
func IsNoColor() bool {
	uiMu.RLock()
	defer uiMu.RUnlock()
	return noColorMode
}

const bannerArt = `
                                       
 __      ___ ____   ____ _ _ __   ___  
 \ \ /\ / / '_ \ \ / / _' | '_ \ / _ \ 
  \ V  V /| |_) \ V / (_| | | | |  __/ 
   \_/\_/ | .__/ \_/ \__,_|_| |_|\___| 
          |_|                          
`

const bannerSeparator = "_______________________________________________"

// PrintBanner writes the application banner to w.
func PrintBanner(w io.Writer) {
	for _, line := range strings.Split(bannerArt, "\n") {
		if strings.TrimSpace(line) != "" {
			fmt.Fprintln(w, BannerStyle.Render(line))
		}
	}
	fmt.Fprintf(w, "                 v%s\n", VersionStyle.Render(defaults.Version))
	fmt.Fprintln(w, DividerStyle.Render(bannerSeparator))
	fmt.Fprintln(w)
}

// PrintConfigLine prints one "label: value" line of the scan header.
func PrintConfigLine(w io.Writer, label, value string) {
	fmt.Fprintf(w, "%s %s\n", ConfigLabelStyle.Render(label+":"), ConfigValueStyle.Render(value))
}

// PrintDivider prints a horizontal rule.
func PrintDivider(w io.Writer) {
	fmt.Fprintln(w, DividerStyle.Render(bannerSeparator))
}
