// Command hash-generator prints password hashes produced by the server's
// configured hasher, for seeding fixtures and test databases.
//
// Usage:
//
//	hash-generator [-hasher argon2id|bcrypt] [-secret <hash secret>] password...
//
// The secret defaults to TASKS_AUTH_HASH_SECRET.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/service/auth"
)

var defaultPasswords = []string{
	"Password123",
	"Test@#$%^&*()1a",
	"ThisIsAVeryLongPassword1ThatTestsEdgeCasesForTheHasher",
	"Тест1234Ab",
}

func main() {
	hasher := flag.String("hasher", auth.HasherArgon2id, "password hasher (argon2id or bcrypt)")
	secret := flag.String("secret", os.Getenv(config.EnvPrefix+"_AUTH_HASH_SECRET"), "argon2id hash secret")
	flag.Parse()

	passwords := flag.Args()
	if len(passwords) == 0 {
		passwords = defaultPasswords
	}

	cfg := config.AuthConfig{HashSecret: *secret, PasswordHasher: *hasher}
	if err := generate(os.Stdout, cfg, passwords); err != nil {
		fmt.Fprintf(os.Stderr, "hash-generator: %v\n", err)
		os.Exit(1)
	}
}

func generate(w io.Writer, cfg config.AuthConfig, passwords []string) error {
	h, err := auth.NewPasswordHasher(cfg)
	if err != nil {
		return err
	}

	for _, password := range passwords {
		hash, err := h.Hash(password)
		if err != nil {
			return fmt.Errorf("hash %q: %w", password, err)
		}
		if _, err := fmt.Fprintf(w, "Password: %s\nHash: %s\n\n", password, hash); err != nil {
			return err
		}
	}
	return nil
}
