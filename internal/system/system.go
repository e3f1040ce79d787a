package system

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"time"
)

// InitResourceLimits raises the open file limit so parallel renders do not
// run out of descriptors.
func InitResourceLimits() {
	var rLimit syscall.Rlimit
	err := syscall.Getrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to read the open file limit: %v", err)
		return
	}

	rLimit.Cur = 2048
	if rLimit.Cur > rLimit.Max {
		rLimit.Cur = rLimit.Max
	}

	err = syscall.Setrlimit(syscall.RLIMIT_NOFILE, &rLimit)
	if err != nil {
		log.Printf("[!] Failed to raise the open file limit: %v", err)
	} else {
		fmt.Printf("[*] Open file limit raised to %d\n", rLimit.Cur)
	}
}

func findLatest(dir string, extensions []string, kind string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() {
			continue
		}
		name := strings.ToLower(f.Name())
		match := false
		for _, ext := range extensions {
			if strings.HasSuffix(name, ext) {
				match = true
				break
			}
		}
		if !match {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	if latestFile == "" {
		return "", fmt.Errorf("no %s files found in %s", kind, dir)
	}

	return latestFile, nil
}

// FindLatestStage returns the most recently modified stage document in dir.
func FindLatestStage(dir string) (string, error) {
	return findLatest(dir, []string{".usda"}, "stage")
}

// FindLatestTexture returns the most recently modified texture input in dir.
// PDF documents count as texture sources.
func FindLatestTexture(dir string) (string, error) {
	return findLatest(dir, []string{".jpg", ".jpeg", ".png", ".pdf"}, "texture")
}

// FindLatestHDRI returns the most recently modified environment map in dir.
func FindLatestHDRI(dir string) (string, error) {
	return findLatest(dir, []string{".hdr", ".exr"}, "HDRI")
}
