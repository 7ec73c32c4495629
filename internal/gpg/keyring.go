// Package gpg drives the gpg binary: key identification, idempotent
// import into the permanent keyring, and colon-format output parsing.
package gpg

import (
	"context"
	"os"
	"strings"

	"github.com/systmms/macstrap/internal/execenv"
)

// ParseSecretKeyID extracts the key identifier from gpg --with-colons
// output: the 5th colon-delimited field of the first record whose type
// tag is "sec".
func ParseSecretKeyID(colons string) (string, bool) {
	for _, line := range strings.Split(colons, "\n") {
		if !strings.HasPrefix(line, "sec:") {
			continue
		}
		fields := strings.Split(line, ":")
		if len(fields) > 4 && fields[4] != "" {
			return fields[4], true
		}
	}
	return "", false
}

// withEphemeralKeyring creates a disposable GNUPGHOME, runs fn with the
// matching environment overlay, and removes the directory on every exit
// path. gpg refuses group-readable homes, hence 0700.
func withEphemeralKeyring(fn func(env map[string]string) error) error {
	dir, err := os.MkdirTemp("", "macstrap-keyring-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	if err := os.Chmod(dir, 0o700); err != nil {
		return err
	}
	return fn(map[string]string{"GNUPGHOME": dir})
}

// listSecretKeys runs gpg --list-secret-keys in machine-readable form,
// optionally scoped to an environment overlay and/or a query.
func listSecretKeys(ctx context.Context, runner execenv.Runner, env map[string]string, query string) (execenv.Result, error) {
	args := []string{"--batch", "--list-secret-keys", "--with-colons"}
	if query != "" {
		args = append(args, query)
	}
	return runner.Run(ctx, execenv.Spec{Name: "gpg", Args: args, Env: env})
}

// importKey pipes key text into gpg --import, optionally under an
// environment overlay pointing at an isolated keyring.
func importKey(ctx context.Context, runner execenv.Runner, env map[string]string, keyText string) (execenv.Result, error) {
	return runner.Run(ctx, execenv.Spec{
		Name:  "gpg",
		Args:  []string{"--batch", "--import"},
		Env:   env,
		Stdin: keyText,
	})
}
