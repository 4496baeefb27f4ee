package configuration

import (
	"bufio"
	"os"
	"strings"
)

// LoadEnvFromFile reads KEY=VALUE pairs from the given files into the process
// environment. Missing files are skipped, comment and blank lines are ignored,
// and variables already present in the environment always win over file values.
func LoadEnvFromFile(paths ...string) {
	for _, p := range paths {
		_ = loadEnvFile(p)
	}
}

func loadEnvFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, val, found := strings.Cut(line, "=")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		if _, exists := os.LookupEnv(key); exists {
			continue
		}
		val = strings.Trim(strings.TrimSpace(val), `"'`)
		_ = os.Setenv(key, val)
	}
	return scanner.Err()
}
