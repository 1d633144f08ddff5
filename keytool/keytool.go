package keytool

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"

	"github.com/frantjc/apkcfg"
)

// SHA256CertFingerprints finds `keytool` on the PATH and runs SHA256CertFingerprints against it.
// See Command.SHA256CertFingerprints.
func SHA256CertFingerprints(ctx context.Context, name string) (string, error) {
	return Command("keytool").SHA256CertFingerprints(ctx, name)
}

// Command represents the path to an `keytool` executable.
type Command string

func (c Command) String() string {
	return string(c)
}

func (c Command) run(ctx context.Context, args ...string) (string, error) {
	var (
		stdout = new(bytes.Buffer)
		stderr = new(bytes.Buffer)
		//nolint:gosec
		cmd = exec.CommandContext(ctx, c.String(), args...)
	)

	cmd.Stdout = stdout
	cmd.Stderr = stderr

	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return "", fmt.Errorf("keytool %s: %w: %s", args[0], err, msg)
		}

		return "", fmt.Errorf("keytool %s: %w", args[0], err)
	}

	return ParseSHA256(stdout)
}

// SHA256CertFingerprints returns the SHA-256 fingerprint of the
// certificate that signed the .apk or .jar at name.
func (c Command) SHA256CertFingerprints(ctx context.Context, name string) (string, error) {
	return c.run(ctx, "-printcert", "-jarfile", name)
}

// KeystoreFingerprint returns the SHA-256 fingerprint of the certificate
// for sc's key alias in sc's keystore, i.e. the fingerprint that an
// artifact signed with sc will carry.
func (c Command) KeystoreFingerprint(ctx context.Context, sc apkcfg.SigningConfig) (string, error) {
	keystore, err := sc.Keystore()
	if err != nil {
		return "", err
	}

	args := []string{"-list", "-v", "-keystore", keystore}

	if sc.KeyAlias != "" {
		args = append(args, "-alias", sc.KeyAlias)
	}

	if sc.StorePassword != "" {
		args = append(args, "-storepass", sc.StorePassword)
	}

	return c.run(ctx, args...)
}

// ParseSHA256 finds the first SHA-256 fingerprint in keytool's output.
func ParseSHA256(r io.Reader) (string, error) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, "SHA256: ") {
			if fields := strings.Fields(line); len(fields) >= 2 {
				return fields[len(fields)-1], nil
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return "", err
	}

	return "", fmt.Errorf("sha256 cert fingerprints not found")
}
