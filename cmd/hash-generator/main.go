// Command hash-generator prints argon2id digests for the given passwords,
// using the hashing parameters from configuration or the defaults.
// It reads passwords from arguments or, when none are given, one per line from stdin.
package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/phrazzld/accounts-api/internal/service/auth"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	params := auth.DefaultParams()

	cmd := &cobra.Command{
		Use:          "hash-generator [password...]",
		Short:        "Print argon2id digests for passwords",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hasher, err := auth.NewArgon2idHasher(params)
			if err != nil {
				return err
			}
			if len(args) > 0 {
				return hashAll(cmd.OutOrStdout(), hasher, args)
			}
			return hashLines(cmd.OutOrStdout(), cmd.InOrStdin(), hasher)
		},
	}

	cmd.Flags().Uint32Var(&params.Time, "time", params.Time, "argon2id iterations")
	cmd.Flags().Uint32Var(&params.MemoryKiB, "memory-kib", params.MemoryKiB, "argon2id memory in KiB")
	cmd.Flags().Uint8Var(&params.Threads, "threads", params.Threads, "argon2id parallelism")

	return cmd
}

func hashAll(w io.Writer, hasher auth.PasswordHasher, passwords []string) error {
	for _, password := range passwords {
		digest, err := hasher.Hash(password)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, digest); err != nil {
			return err
		}
	}
	return nil
}

func hashLines(w io.Writer, r io.Reader, hasher auth.PasswordHasher) error {
	scanner := bufio.NewScanner(r)
	var passwords []string
	for scanner.Scan() {
		if line := scanner.Text(); line != "" {
			passwords = append(passwords, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read passwords: %w", err)
	}
	return hashAll(w, hasher, passwords)
}
