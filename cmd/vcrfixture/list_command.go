package main

import (
	"io/fs"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/seborama/vcrfixture"
	"github.com/seborama/vcrfixture/cassette"
)

var cassetteExtensions = []string{".yaml", ".yml", ".json", ".yaml.gz", ".yml.gz", ".json.gz"}

func newListCommand(cipher *cipherFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "list [dir]",
		Short: "List the cassettes found under dir (default: " + vcrfixture.CassetteDirName + ")",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := vcrfixture.CassetteDirName
			if len(args) == 1 {
				dir = args[0]
			}

			opts, err := cipher.cassetteOptions()
			if err != nil {
				return err
			}

			names, err := findCassettes(dir)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(names))
			for _, name := range names {
				d, err := cassette.Describe(name, opts...)
				if err != nil {
					return err
				}

				rel, err := filepath.Rel(dir, name)
				if err != nil {
					rel = name
				}

				tracks := "?"
				if d.Tracks >= 0 {
					tracks = strconv.Itoa(d.Tracks)
				}

				rows = append(rows, []string{
					rel,
					tracks,
					d.Serializer,
					yesNo(d.LongPlay),
					yesNo(d.Encrypted),
					strconv.Itoa(d.Size),
				})
			}

			printTable(cmd.OutOrStdout(),
				[]string{"CASSETTE", "TRACKS", "FORMAT", "GZIP", "ENCRYPTED", "BYTES"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignLeft, alignLeft, alignLeft, alignRight},
			)

			return nil
		},
	}
}

func findCassettes(dir string) ([]string, error) {
	var names []string

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		for _, ext := range cassetteExtensions {
			if strings.HasSuffix(path, ext) {
				names = append(names, path)
				break
			}
		}

		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, "failed to list cassettes in '%s'", dir)
	}

	return names, nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
