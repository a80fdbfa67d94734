package main

import (
	"github.com/spf13/cobra"

	"github.com/seborama/vcrfixture/cassette"
	"github.com/seborama/vcrfixture/encryption"
)

type cipherFlags struct {
	keyFile string
	kind    string
}

// cassetteOptions returns the options needed to read cassettes encrypted with the flags' key.
func (f *cipherFlags) cassetteOptions() ([]cassette.Option, error) {
	if f.keyFile == "" {
		return nil, nil
	}

	crypter, err := encryption.NewCrypterFromKeyFile(f.kind, f.keyFile)
	if err != nil {
		return nil, err
	}

	return []cassette.Option{cassette.WithCrypter(crypter)}, nil
}

func newRootCommand() *cobra.Command {
	cipher := &cipherFlags{}

	rootCmd := &cobra.Command{
		Use:           "vcrfixture",
		Short:         "Inspect HTTP recorder cassettes",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&cipher.keyFile, "key-file", "", "Location of the encryption key file")
	rootCmd.PersistentFlags().StringVar(&cipher.kind, "cipher", encryption.KindChaCha20Poly1305,
		"Cipher of encrypted cassettes: "+encryption.KindChaCha20Poly1305+" or "+encryption.KindAESGCM)

	rootCmd.AddCommand(newListCommand(cipher))
	rootCmd.AddCommand(newShowCommand(cipher))
	rootCmd.AddCommand(newDecryptCommand(cipher))

	return rootCmd
}
