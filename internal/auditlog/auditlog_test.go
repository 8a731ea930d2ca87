package auditlog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2026, 2, 23, 10, 30, 0, 0, time.UTC)

func testEntry() Entry {
	return Entry{
		Timestamp: testTime,
		Principal: "admin",
		Role:      "Company",
		Action:    "bill.add",
		Target:    "EXP-001",
		Outcome:   Allowed,
		Details:   "AWS Cloud Hosting, 45000.00",
	}
}

func TestAppend_NewFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "bill.add", entries[0].Action)

	raw, err := os.ReadFile(Path(dir))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), "timestamp,principal,role,action,target,outcome,details\n"))
}

func TestAppend_ExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, []Entry{testEntry()}))

	denied := testEntry()
	denied.Role = "Viewer"
	denied.Outcome = Denied
	denied.Target = ""
	require.NoError(t, Append(dir, []Entry{denied}))

	entries, err := Read(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Allowed, entries[0].Outcome)
	assert.Equal(t, Denied, entries[1].Outcome)
}

func TestAppend_Nothing(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Append(dir, nil))
	_, err := os.Stat(filepath.Join(dir, "logs"))
	assert.True(t, os.IsNotExist(err))
}

func TestRead_NotFound(t *testing.T) {
	entries, err := Read(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, entries)
}

func TestMarshalUnmarshal(t *testing.T) {
	e := testEntry()
	row := MarshalEntry(e)
	assert.Len(t, row, numFields)
	assert.Equal(t, "2026-02-23T10:30:00Z", row[colTimestamp])

	got, err := UnmarshalEntry(row)
	require.NoError(t, err)
	assert.True(t, e.Timestamp.Equal(got.Timestamp))
	got.Timestamp = e.Timestamp
	assert.Equal(t, e, got)
}

func TestUnmarshalEntry_BadFieldCount(t *testing.T) {
	_, err := UnmarshalEntry([]string{"one", "two"})
	assert.ErrorContains(t, err, "expected 7 fields")
}
