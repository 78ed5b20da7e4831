// internal/cli/records.go
//
// records 子命令：讀取病患 CSV 匯出檔，把換行溢出的地址併回上一筆，逐列印出。

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"banking/internal/records"
)

// newRecordsCmd 建立 records 子命令；--address-column 接受 0 起算的任何欄位。
func newRecordsCmd() *cobra.Command {
	opts := records.DefaultOptions()

	cmd := &cobra.Command{
		Use:   "records <file.csv>",
		Short: "Print patient records from a CSV export, merging wrapped address lines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tbl, err := records.ReadFile(args[0], opts)
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%q\n", tbl.Header)
			for _, r := range tbl.Records {
				fmt.Fprintf(out, "%q\n", r)
			}
			fmt.Fprintf(out, "\nProcessed %d records\n", len(tbl.Records))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.HeaderMarker, "header", records.DefaultHeaderMarker, "first cell of the column header row")
	cmd.Flags().IntVar(&opts.AddressColumn, "address-column", records.DefaultAddressColumn, "column receiving continuation lines")
	return cmd
}
