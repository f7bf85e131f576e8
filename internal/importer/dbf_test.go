package importer

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

// buildDBF собирает минимальный dBASE III файл для тестов: все поля
// символьные, значения кодируются в cp874.
func buildDBF(t *testing.T, fields []string, widths []int, rows [][]string) []byte {
	t.Helper()
	require.Equal(t, len(fields), len(widths))

	recordLen := 1
	for _, w := range widths {
		recordLen += w
	}
	headerLen := 32 + 32*len(fields) + 1

	buf := make([]byte, 0, headerLen+recordLen*len(rows)+1)
	header := make([]byte, 32)
	header[0] = 0x03
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(rows)))
	binary.LittleEndian.PutUint16(header[8:10], uint16(headerLen))
	binary.LittleEndian.PutUint16(header[10:12], uint16(recordLen))
	buf = append(buf, header...)

	for i, name := range fields {
		desc := make([]byte, 32)
		copy(desc[:11], name)
		desc[11] = 'C'
		desc[16] = byte(widths[i])
		buf = append(buf, desc...)
	}
	buf = append(buf, 0x0D)

	enc := charmap.Windows874.NewEncoder()
	for _, row := range rows {
		require.Equal(t, len(fields), len(row))
		buf = append(buf, ' ')
		for i, v := range row {
			encoded, err := enc.String(v)
			require.NoError(t, err)
			cell := make([]byte, widths[i])
			for j := range cell {
				cell[j] = ' '
			}
			copy(cell, encoded)
			buf = append(buf, cell...)
		}
	}
	return append(buf, 0x1A)
}

func TestParseDBF(t *testing.T) {
	data := buildDBF(t,
		[]string{"STD_CODE", "NAME"},
		[]int{13, 20},
		[][]string{
			{"1234567890123", "สมชาย"},
			{"0000000042", "Somsak"},
		})

	table, err := ParseDBF(data)
	require.NoError(t, err)
	assert.Equal(t, []string{"STD_CODE", "NAME"}, table.Fields)
	require.Len(t, table.Records, 2)
	assert.Equal(t, "1234567890123", table.Records[0].Get("STD_CODE"))
	assert.Equal(t, "สมชาย", table.Records[0].Get("NAME"))
	assert.Equal(t, "Somsak", table.Records[1].Get("NAME"))
}

func TestParseDBFSkipsDeletedRecords(t *testing.T) {
	data := buildDBF(t, []string{"ID"}, []int{5}, [][]string{{"one"}, {"two"}})
	// помечаем первую запись удалённой
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	data[headerLen] = '*'

	table, err := ParseDBF(data)
	require.NoError(t, err)
	require.Len(t, table.Records, 1)
	assert.Equal(t, "two", table.Records[0].Get("ID"))
}

func TestParseDBFRejectsGarbage(t *testing.T) {
	_, err := ParseDBF([]byte("not a dbf"))
	assert.Error(t, err)

	_, err = ParseDBF(make([]byte, 64))
	assert.Error(t, err)
}

func TestRecordGetAliases(t *testing.T) {
	r := Record{"GRP_ADVIS": "ครูสมศรี"}
	assert.Equal(t, "ครูสมศรี", r.Get("TEACHER_NAME", "GRP_ADVIS"))
	assert.Equal(t, "", r.Get("TEACHER_NAME"))
}
