package inspection

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecord_String(t *testing.T) {
	at := time.Date(2026, 10, 15, 9, 5, 0, 0, time.UTC)

	rec := NewRecord(Judgment{Display: "25.0", Anomalous: true}, at, "Alice", "")
	assert.Equal(t, "25.0 [09:05] 🚨 @Alice", rec.String())

	rec = NewRecord(Judgment{Display: "OK"}, at, "", " leaking ")
	assert.Equal(t, "OK [09:05] (leaking)", rec.String())

	rec = NewRecord(Judgment{Display: "NG", Anomalous: true}, at, "Bob", "ice on coupling")
	assert.Equal(t, "NG [09:05] 🚨 @Bob (ice on coupling)", rec.String())
}

func TestParseRecord(t *testing.T) {
	rec, ok := ParseRecord("NG [09:05] 🚨 @Bob (ice (thick))")
	require.True(t, ok)
	assert.Equal(t, Record{Display: "NG", Time: "09:05", Anomalous: true, Submitter: "Bob", Note: "ice (thick)"}, rec)

	// cells written before submitters were recorded
	rec, ok = ParseRecord("57.2 [14:30] (checked twice)")
	require.True(t, ok)
	assert.False(t, rec.Anomalous)
	assert.Equal(t, "checked twice", rec.Note)

	_, ok = ParseRecord("hand typed")
	assert.False(t, ok)
	_, ok = ParseRecord("")
	assert.False(t, ok)
}

func TestEmphasis_Encoding(t *testing.T) {
	assert.Equal(t, "bg=#ffcccc;fg=#c00000;bold", AnomalyEmphasis.String())

	e, err := ParseEmphasis(AnomalyEmphasis.String())
	require.NoError(t, err)
	assert.Equal(t, AnomalyEmphasis, e)

	e, err = ParseEmphasis("")
	require.NoError(t, err)
	assert.True(t, e.IsZero())

	_, err = ParseEmphasis("italic")
	assert.Error(t, err)
}
