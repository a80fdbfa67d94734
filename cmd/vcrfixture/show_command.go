package main

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/seborama/vcrfixture/cassette"
)

func newShowCommand(cipher *cipherFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "show <cassette>",
		Short: "Show the tracks of a cassette",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := cipher.cassetteOptions()
			if err != nil {
				return err
			}

			k7, err := cassette.LoadCassette(args[0], opts...)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, k7.NumberOfTracks())
			for i := int32(0); i < k7.NumberOfTracks(); i++ {
				trk := k7.Track(i)

				var url string
				if trk.Request.URL != nil {
					url = trk.Request.URL.String()
				}

				status, bodySize := "", ""
				if trk.Response != nil {
					status = strconv.Itoa(trk.Response.StatusCode)
					bodySize = strconv.Itoa(len(trk.Response.Body))
				}

				var errMsg string
				if err := trk.GetError(); err != nil {
					errMsg = err.Error()
				}

				rows = append(rows, []string{strconv.Itoa(int(i)), trk.Request.Method, url, status, bodySize, errMsg})
			}

			printTable(cmd.OutOrStdout(),
				[]string{"#", "METHOD", "URL", "STATUS", "BYTES", "ERROR"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
			)

			return nil
		},
	}
}
