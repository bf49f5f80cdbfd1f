package inspection

import (
	"regexp"
	"strings"
	"time"
)

const (
	// AnomalyMarker is appended to records judged anomalous.
	AnomalyMarker = "🚨"

	DateLayout = "2006/01/02"
	TimeLayout = "15:04"
)

// Record is the provenance-annotated value stored in one grid cell:
//
//	VALUE [HH:MM] 🚨 @submitter (note)
//
// where the marker, submitter and note are optional.
type Record struct {
	Display   string `json:"display"`
	Time      string `json:"time"`
	Anomalous bool   `json:"anomalous"`
	Submitter string `json:"submitter,omitempty"`
	Note      string `json:"note,omitempty"`
}

// NewRecord stamps a judgment with the submission time and provenance.
func NewRecord(j Judgment, at time.Time, submitter, note string) Record {
	return Record{
		Display:   j.Display,
		Time:      at.Format(TimeLayout),
		Anomalous: j.Anomalous,
		Submitter: strings.TrimSpace(submitter),
		Note:      strings.TrimSpace(note),
	}
}

// String renders the cell value.
func (r Record) String() string {
	var b strings.Builder
	b.WriteString(r.Display)
	b.WriteString(" [")
	b.WriteString(r.Time)
	b.WriteString("]")
	if r.Anomalous {
		b.WriteString(" " + AnomalyMarker)
	}
	if r.Submitter != "" {
		b.WriteString(" @" + r.Submitter)
	}
	if r.Note != "" {
		b.WriteString(" (" + r.Note + ")")
	}
	return b.String()
}

var recordHead = regexp.MustCompile(`^(.*?) \[(\d{2}:\d{2})\](.*)$`)

// ParseRecord decodes a cell written by Record.String. It is best effort:
// cells written by hand or by older tools report ok=false.
func ParseRecord(cell string) (Record, bool) {
	m := recordHead.FindStringSubmatch(cell)
	if m == nil {
		return Record{}, false
	}
	rec := Record{Display: m[1], Time: m[2]}
	rest := m[3]
	if strings.HasPrefix(rest, " "+AnomalyMarker) {
		rec.Anomalous = true
		rest = strings.TrimPrefix(rest, " "+AnomalyMarker)
	}
	if strings.HasPrefix(rest, " @") {
		rest = rest[2:]
		i := strings.Index(rest, " (")
		if i < 0 || !strings.HasSuffix(rest, ")") {
			rec.Submitter = rest
			return rec, true
		}
		rec.Submitter = rest[:i]
		rest = rest[i:]
	}
	switch {
	case rest == "":
	case strings.HasPrefix(rest, " (") && strings.HasSuffix(rest, ")"):
		rec.Note = rest[2 : len(rest)-1]
	default:
		return rec, false
	}
	return rec, true
}
