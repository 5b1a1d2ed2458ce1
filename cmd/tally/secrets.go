package main

import (
	"bufio"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"git.sr.ht/~jakintosh/tally/internal/password"
	"git.sr.ht/~jakintosh/tally/internal/service"
	"github.com/gorilla/securecookie"
	"github.com/spf13/cobra"
)

var secretLength int

var genSecretCmd = &cobra.Command{
	Use:   "gen-secret",
	Short: "Print a random secret suitable for JWT_KEY or CSRF_KEY",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if secretLength < 16 {
			return errors.New("length must be at least 16 bytes")
		}
		key := securecookie.GenerateRandomKey(secretLength)
		if key == nil {
			return errors.New("failed to read random bytes")
		}
		fmt.Fprintln(cmd.OutOrStdout(), base64.RawURLEncoding.EncodeToString(key))
		return nil
	},
}

var hashPasswordCmd = &cobra.Command{
	Use:   "hash-password [password]",
	Short: "Print the bcrypt digest of a password (read from stdin when omitted)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var plaintext string
		if len(args) == 1 {
			plaintext = args[0]
		} else {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if err != nil && line == "" {
				return fmt.Errorf("failed to read password: %v", err)
			}
			plaintext = strings.TrimRight(line, "\r\n")
		}
		if len([]rune(plaintext)) < service.MinPasswordLength {
			return fmt.Errorf("password must be at least %d characters", service.MinPasswordLength)
		}
		if len(plaintext) > service.MaxPasswordBytes {
			return fmt.Errorf("password must be at most %d bytes", service.MaxPasswordBytes)
		}

		digest, err := password.NewHasher(password.ModeProduction).Hash(plaintext)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), digest)
		return nil
	},
}

func init() {
	genSecretCmd.Flags().IntVar(&secretLength, "length", 32, "secret length in bytes")
}
