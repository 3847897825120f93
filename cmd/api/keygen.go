package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ovaphlow/pitchfork/service-pitchside/internal/token"
)

func newKeygenCmd() *cobra.Command {
	var (
		dir   string
		bits  int
		force bool
	)
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Write an RS256 key pair for signing tokens",
		RunE: func(cmd *cobra.Command, args []string) error {
			privPath, pubPath, err := writeKeyPair(dir, bits, force)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "JWT_PRIVATE_KEY_FILE=%s\nJWT_PUBLIC_KEY_FILE=%s\n", privPath, pubPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "out", ".", "directory to write private.pem and public.pem into")
	cmd.Flags().IntVar(&bits, "bits", 2048, "RSA key size")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing key files")
	return cmd
}

func writeKeyPair(dir string, bits int, force bool) (string, string, error) {
	if bits < 2048 {
		return "", "", fmt.Errorf("key size %d too small, use at least 2048", bits)
	}
	privPath := filepath.Join(dir, "private.pem")
	pubPath := filepath.Join(dir, "public.pem")
	if !force {
		for _, p := range []string{privPath, pubPath} {
			if _, err := os.Stat(p); err == nil {
				return "", "", fmt.Errorf("%s exists, pass --force to overwrite", p)
			}
		}
	}
	keys, err := token.GenerateKeys(bits)
	if err != nil {
		return "", "", err
	}
	priv, pub, err := keys.EncodePEM()
	if err != nil {
		return "", "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(privPath, priv, 0o600); err != nil {
		return "", "", err
	}
	if err := os.WriteFile(pubPath, pub, 0o644); err != nil {
		return "", "", err
	}
	return privPath, pubPath, nil
}
