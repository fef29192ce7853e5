// Package export serializes a finished transcript as a CSV table readable by
// spreadsheet tools.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/miekki-jerry/transtamps/internal/transcript"
)

// Header columns of the exported table.
var Header = []string{"Timestamp", "Text"}

// Row is one parsed line of an exported transcript.
type Row struct {
	Timestamp string
	Text      string
}

// WriteCSV writes one row per utterance with a "MM:SS - MM:SS" timestamp.
// An empty transcript produces a header-only file. encoding/csv handles
// quoting, so embedded delimiters, quotes, and newlines round-trip exactly.
func WriteCSV(w io.Writer, tr *transcript.Transcript) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, u := range tr.Utterances {
		ts := fmt.Sprintf("%s - %s", transcript.FormatTime(u.StartSec), transcript.FormatTime(u.EndSec))
		if err := cw.Write([]string{ts, u.Text}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a previously exported transcript back into rows. The header
// line is validated and skipped.
func ReadCSV(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Header)

	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if records[0][0] != Header[0] || records[0][1] != Header[1] {
		return nil, fmt.Errorf("unexpected header %v", records[0])
	}

	rows := make([]Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		rows = append(rows, Row{Timestamp: rec[0], Text: rec[1]})
	}
	return rows, nil
}
