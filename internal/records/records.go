// internal/records/records.go
//
// Package records 讀取病患資料的 CSV 匯出檔。
// 匯出檔開頭可能有報表標題等雜列，欄位標題列之後才是資料；
// 地址過長時會溢到下一列（首欄為空），需要併回上一筆紀錄的地址欄。
package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	DefaultHeaderMarker  = "Patient Name"
	DefaultAddressColumn = 9
)

// Options 描述匯出檔的版面。
// - HeaderMarker：欄位標題列的第一格；空字串時使用 DefaultHeaderMarker。
// - AddressColumn：壓縮後（去掉空格）紀錄中接收溢出內容的欄位，0 起算；負值時使用 DefaultAddressColumn。
type Options struct {
	HeaderMarker  string
	AddressColumn int
}

// DefaultOptions 回傳一般匯出檔的版面設定。
func DefaultOptions() Options {
	return Options{HeaderMarker: DefaultHeaderMarker, AddressColumn: DefaultAddressColumn}
}

func (o Options) withDefaults() Options {
	if o.HeaderMarker == "" {
		o.HeaderMarker = DefaultHeaderMarker
	}
	if o.AddressColumn < 0 {
		o.AddressColumn = DefaultAddressColumn
	}
	return o
}

// Table 為解析結果；每一列都已去掉空格。
type Table struct {
	Header  []string
	Records [][]string
}

// ErrNoHeader 代表整份檔案找不到欄位標題列。
var ErrNoHeader = errors.New("column header row not found")

// ReadFile 開啟 path 並以 Read 解析。
func ReadFile(path string, opts Options) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	return Read(f, opts)
}

// Read 解析 CSV 串流：
// - 標題列之前的列一律略過；之後再出現的標題列（分頁重複）也略過。
// - 首欄非空為新紀錄；首欄為空則把非空格以空白串接，附加到上一筆的地址欄。
// - 在第一筆紀錄之前、或上一筆沒有地址欄的溢出列直接忽略。
func Read(r io.Reader, opts Options) (Table, error) {
	opts = opts.withDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		t          Table
		seenHeader bool
		line       int
	)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return t, fmt.Errorf("csv line %d: %w", line, err)
		}

		first := ""
		if len(row) > 0 {
			first = row[0]
		}

		switch {
		case !seenHeader:
			if first == opts.HeaderMarker {
				t.Header = compact(row)
				seenHeader = true
			}
		case first == opts.HeaderMarker:
			// 分頁重複的標題列
		case first != "":
			t.Records = append(t.Records, compact(row))
		default:
			extra := compact(row)
			if len(extra) == 0 || len(t.Records) == 0 {
				continue
			}
			last := t.Records[len(t.Records)-1]
			if opts.AddressColumn >= len(last) {
				continue
			}
			last[opts.AddressColumn] += " " + strings.Join(extra, " ")
		}
	}

	if !seenHeader {
		return t, ErrNoHeader
	}
	return t, nil
}

// compact 去掉空字串格。
func compact(row []string) []string {
	out := make([]string, 0, len(row))
	for _, c := range row {
		if c != "" {
			out = append(out, c)
		}
	}
	return out
}
