package csvutil

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	data := strings.Join([]string{
		"Student_ID, Name ,class_name,section",
		"ST001,Aylin Demir,5,A",
		",,,",
		"ST002, Baran Kaya ,6,B",
	}, "\n")

	rows, err := Read(strings.NewReader(data), []string{"student_id", "name"})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "ST001", rows[0]["student_id"])
	assert.Equal(t, "Aylin Demir", rows[0]["name"])
	assert.Equal(t, "Baran Kaya", rows[1]["name"])
	assert.Equal(t, "6", rows[1]["class_name"])
}

func TestReadMissingColumns(t *testing.T) {
	data := "student_id,name\nST001,Aylin Demir"

	_, err := Read(strings.NewReader(data), []string{"student_id", "class_name", "section"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "class_name")
	assert.Contains(t, err.Error(), "section")
}

func TestReadEmptyFile(t *testing.T) {
	_, err := Read(strings.NewReader(""), []string{"student_id"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestReadHeaderOnly(t *testing.T) {
	rows, err := Read(strings.NewReader("student_id,name"), []string{"student_id"})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, []string{"a", "b"}, [][]string{
		{"1", "first"},
		{"2", "second, with comma"},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, `2,"second, with comma"`, lines[2])
}
