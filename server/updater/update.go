package updater

import (
	"context"
	"log/slog"
	"os/exec"
	"strings"
	"time"
)

// Update using the builtin function of yt-dlp
func UpdateExecutable(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Minute*2)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "-U").CombinedOutput()
	slog.Info("yt-dlp update", slog.String("output", strings.TrimSpace(string(out))))

	return string(out), err
}

// Version asks the binary for its version string.
func Version(ctx context.Context, binary string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	out, err := exec.CommandContext(ctx, binary, "--version").Output()
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}
