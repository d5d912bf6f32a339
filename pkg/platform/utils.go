package platform

import (
	"os/exec"
	"slices"
)

// commandExists checks if a command is available in PATH
func commandExists(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}

func contains(list []string, item string) bool {
	return slices.Contains(list, item)
}
