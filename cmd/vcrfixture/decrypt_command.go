package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seborama/vcrfixture/cassette"
)

func newDecryptCommand(cipher *cipherFlags) *cobra.Command {
	var cassetteFile string

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt an encrypted cassette to the standard output",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cassetteFile == "" {
				return errors.New("please specify a cassette file with the 'cassette-file' argument")
			}

			if cipher.keyFile == "" {
				return errors.New("please specify a key file with the 'key-file' argument")
			}

			opts, err := cipher.cassetteOptions()
			if err != nil {
				return errors.Wrap(err, "cryptographer")
			}

			data, err := cassette.DumpCassette(cassetteFile, opts...)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.Flags().StringVar(&cassetteFile, "cassette-file", "", "Location of the cassette file to decrypt")

	return cmd
}
