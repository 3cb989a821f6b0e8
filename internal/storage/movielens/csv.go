package movielens

import (
	"encoding/csv"
	"fmt"
	"io"
)

// eachRecord streams header-keyed CSV rows into fn.
func eachRecord(r io.Reader, fn func(line int, record map[string]string) error) error {
	csvReader := csv.NewReader(r)
	csvReader.ReuseRecord = true

	headers, err := csvReader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	headers = append([]string(nil), headers...)

	record := make(map[string]string, len(headers))
	for line := 2; ; line++ {
		row, err := csvReader.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		for i, h := range headers {
			record[h] = row[i]
		}
		if err := fn(line, record); err != nil {
			return fmt.Errorf("line %d: %w", line, err)
		}
	}
}
