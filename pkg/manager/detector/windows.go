package detector

import (
	"os/exec"
	"strings"
)

// WindowsInfo contains information about a Windows system.
// None of the supported package managers run natively on Windows; this is
// reported by the system command so the user knows why nothing was detected.
type WindowsInfo struct {
	ProductName string
	Version     string
}

// DetectWindows detects Windows version information.
func DetectWindows() (*WindowsInfo, error) {
	info := &WindowsInfo{
		ProductName: "Windows",
	}

	cmd := exec.Command("powershell", "-Command", "(Get-CimInstance -ClassName Win32_OperatingSystem).Caption")
	if output, err := cmd.Output(); err == nil {
		if name := strings.TrimSpace(string(output)); name != "" {
			info.ProductName = name
		}
	}

	cmd = exec.Command("powershell", "-Command", "(Get-CimInstance -ClassName Win32_OperatingSystem).Version")
	if output, err := cmd.Output(); err == nil {
		info.Version = strings.TrimSpace(string(output))
	}

	return info, nil
}
