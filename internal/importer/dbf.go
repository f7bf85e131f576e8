package importer

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// Table — прочитанная DBF-таблица: имена полей в верхнем регистре,
// значения декодированы из cp874 и обрезаны по краям.
type Table struct {
	Fields  []string
	Records []Record
}

type Record map[string]string

// Get возвращает первое непустое значение по списку имён-синонимов.
func (r Record) Get(names ...string) string {
	for _, n := range names {
		if v, ok := r[n]; ok && v != "" {
			return v
		}
	}
	return ""
}

// Has сообщает, есть ли в таблице хоть одно из перечисленных полей.
func (t *Table) Has(names ...string) bool {
	for _, f := range t.Fields {
		for _, n := range names {
			if f == n {
				return true
			}
		}
	}
	return false
}

type dbfField struct {
	name   string
	length int
}

const (
	dbfHeaderSize = 32
	dbfFieldSize  = 32
)

// ParseDBF разбирает dBASE III/IV файл. Memo-поля не читаются, удалённые
// записи (флаг '*') пропускаются.
func ParseDBF(data []byte) (*Table, error) {
	if len(data) < dbfHeaderSize {
		return nil, fmt.Errorf("dbf: file too short (%d bytes)", len(data))
	}
	numRecords := int(binary.LittleEndian.Uint32(data[4:8]))
	headerLen := int(binary.LittleEndian.Uint16(data[8:10]))
	recordLen := int(binary.LittleEndian.Uint16(data[10:12]))
	if headerLen < dbfHeaderSize || headerLen > len(data) || recordLen < 1 {
		return nil, fmt.Errorf("dbf: malformed header (header=%d record=%d)", headerLen, recordLen)
	}

	dec := charmap.Windows874.NewDecoder()
	var fields []dbfField
	for off := dbfHeaderSize; off+dbfFieldSize <= headerLen && data[off] != 0x0D; off += dbfFieldSize {
		raw := data[off : off+dbfFieldSize]
		name := raw[:11]
		if i := strings.IndexByte(string(name), 0); i >= 0 {
			name = name[:i]
		}
		fields = append(fields, dbfField{
			name:   strings.ToUpper(strings.TrimSpace(string(name))),
			length: int(raw[16]),
		})
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("dbf: no field descriptors")
	}

	t := &Table{Fields: make([]string, 0, len(fields))}
	for _, f := range fields {
		t.Fields = append(t.Fields, f.name)
	}

	off := headerLen
	for i := 0; i < numRecords; i++ {
		if off+recordLen > len(data) {
			break
		}
		rec := data[off : off+recordLen]
		off += recordLen
		if rec[0] == '*' { // удалённая запись
			continue
		}

		row := make(Record, len(fields))
		pos := 1
		for _, f := range fields {
			if pos+f.length > len(rec) {
				return nil, fmt.Errorf("dbf: record %d truncated", i+1)
			}
			cell := rec[pos : pos+f.length]
			pos += f.length

			decoded, err := dec.Bytes(cell)
			if err != nil {
				decoded = cell
			}
			row[f.name] = strings.TrimSpace(strings.Trim(string(decoded), "\x00"))
		}
		t.Records = append(t.Records, row)
	}
	return t, nil
}
