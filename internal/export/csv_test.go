package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/miekki-jerry/transtamps/internal/transcript"
)

func TestWriteCSVRoundTrip(t *testing.T) {
	tr := &transcript.Transcript{
		Utterances: []transcript.Utterance{
			{StartSec: 0, EndSec: 4, Text: "plain text"},
			{StartSec: 65, EndSec: 70, Text: `has "quotes" and, commas`},
			{StartSec: 601, EndSec: 605, Text: "line one\nline two"},
			{StartSec: 1200, EndSec: 1204, Text: " leading and trailing space "},
		},
	}

	var buf bytes.Buffer
	if err := WriteCSV(&buf, tr); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	rows, err := ReadCSV(&buf)
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != len(tr.Utterances) {
		t.Fatalf("got %d rows, want %d", len(rows), len(tr.Utterances))
	}

	wantTimestamps := []string{"00:00 - 00:04", "01:05 - 01:10", "10:01 - 10:05", "20:00 - 20:04"}
	for i, row := range rows {
		if row.Timestamp != wantTimestamps[i] {
			t.Errorf("row %d timestamp = %q, want %q", i, row.Timestamp, wantTimestamps[i])
		}
		// Character-exact text round trip, including delimiters and newlines.
		if row.Text != tr.Utterances[i].Text {
			t.Errorf("row %d text = %q, want %q", i, row.Text, tr.Utterances[i].Text)
		}
	}
}

func TestWriteCSVEmptyTranscript(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, &transcript.Transcript{}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if got := buf.String(); got != "Timestamp,Text\n" {
		t.Errorf("empty transcript output = %q, want header only", got)
	}

	rows, err := ReadCSV(strings.NewReader(buf.String()))
	if err != nil {
		t.Fatalf("ReadCSV: %v", err)
	}
	if len(rows) != 0 {
		t.Errorf("got %d rows, want 0", len(rows))
	}
}

func TestReadCSVRejectsBadHeader(t *testing.T) {
	if _, err := ReadCSV(strings.NewReader("Start,End\n")); err == nil {
		t.Error("expected error for wrong header")
	}
	if _, err := ReadCSV(strings.NewReader("")); err == nil {
		t.Error("expected error for empty input")
	}
}
