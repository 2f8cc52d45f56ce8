package benchmark

import (
	"bytes"
	"context"
	"encoding/csv"
	"strconv"

	"github.com/hupe1980/sdmgo/blobstore"
)

// trialLog appends rows to a CSV blob, one append per row, so a crash
// mid-sweep preserves every completed trial.
type trialLog struct {
	bs   blobstore.Store
	path string
}

func newTrialLog(bs blobstore.Store, path string) *trialLog {
	return &trialLog{bs: bs, path: path}
}

func encodeRow(fields []string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(fields); err != nil {
		return nil, err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// header truncates the log and writes the header row.
func (t *trialLog) header(ctx context.Context, cols ...string) error {
	row, err := encodeRow(cols)
	if err != nil {
		return err
	}
	return t.bs.Put(ctx, t.path, row)
}

// row appends one trial row.
func (t *trialLog) row(ctx context.Context, fields ...string) error {
	row, err := encodeRow(fields)
	if err != nil {
		return err
	}
	return t.bs.Append(ctx, t.path, row)
}

func itoa(v int) string      { return strconv.Itoa(v) }
func utoa(v uint64) string   { return strconv.FormatUint(v, 10) }
func ftoa(v float64) string  { return strconv.FormatFloat(v, 'f', 4, 64) }
func ftoa2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
