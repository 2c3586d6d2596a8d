package datasource

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/quantvis/livechart/pkg/types"
)

// ReadKLinesFromCSV loads a price frame from a csv file with the
// columns Date,Open,High,Low,Close,Volume, Date in unix seconds. A
// header row is skipped when present.
func ReadKLinesFromCSV(path string) (types.PriceFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "can not open csv file %s", path)
	}
	defer f.Close()

	frame, err := ReadKLines(f)
	if err != nil {
		return nil, errors.Wrapf(err, "can not read csv file %s", path)
	}
	return frame, nil
}

func ReadKLines(r io.Reader) (types.PriceFrame, error) {
	reader := csv.NewReader(r)

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "csv read error")
	}

	var frame types.PriceFrame
	for i, record := range records {
		if len(record) < 6 {
			return nil, errors.Errorf("row %d: expected 6 columns, got %d", i+1, len(record))
		}

		if i == 0 && isHeader(record) {
			continue
		}

		k, err := parseKLine(record)
		if err != nil {
			return nil, errors.Wrapf(err, "row %d", i+1)
		}

		frame = append(frame, k)
	}

	return frame, nil
}

func isHeader(record []string) bool {
	_, err := strconv.ParseInt(record[0], 10, 64)
	return err != nil
}

func parseKLine(record []string) (k types.KLine, err error) {
	sec, err := strconv.ParseInt(record[0], 10, 64)
	if err != nil {
		return k, errors.Wrap(err, "date column")
	}
	k.StartTime = types.NewTimeFromUnix(sec, 0)

	values := make([]float64, 5)
	names := []string{"open", "high", "low", "close", "volume"}
	for i := 0; i < 5; i++ {
		values[i], err = strconv.ParseFloat(record[i+1], 64)
		if err != nil {
			return k, errors.Wrapf(err, "%s column", names[i])
		}
	}

	k.Open = values[0]
	k.High = values[1]
	k.Low = values[2]
	k.Close = values[3]
	k.Volume = values[4]
	return k, nil
}
