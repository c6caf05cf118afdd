/*
 * PRC68K - PalmOS resource database (PRC) container writer.
 *
 * Copyright 2025, PRC68K Authors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package prcfile assembles the finished PRC container from the byte
// segments an assembly run produced: a 78-byte database header, a
// resource map, an optional name table, and the resource data areas
// themselves, per spec §6.3.
package prcfile

import (
	"fmt"
	"time"

	"github.com/rcornwell/prc68k/rle"
)

// macEpochOffset is the number of seconds between the Mac epoch (1904-01-01)
// and the Unix epoch (1970-01-01), used for the header's date fields.
const macEpochOffset = 2082844800

const (
	attrResDB  = 0x0001
	attrBackup = 0x0008
	attrBundle = 0x0020
)

// Resource is one entry destined for the resource map: a four-character
// type, a 16-bit id, an optional name (spec §6.3's supplemented name
// table), and its data bytes.
type Resource struct {
	Type string
	ID   int32
	Name string
	Data []byte
}

// Builder accumulates the pieces of a PRC database as an assembly run
// produces them.
type Builder struct {
	Name         string
	Creator      string
	DBType       string
	Code         []byte // SegCode bytes
	Data         []byte // SegData bytes, compressed into data #0 at Build time
	Resources    []Resource
	ResourceOnly bool // -r: omit the standard code/data resources
}

func fourCC(s string) ([4]byte, error) {
	var cc [4]byte
	if len(s) == 0 {
		return cc, fmt.Errorf("prcfile: four-character code cannot be empty")
	}
	if len(s) > 4 {
		return cc, fmt.Errorf("prcfile: four-character code %q longer than 4 bytes", s)
	}
	copy(cc[:], s)
	for i := len(s); i < 4; i++ {
		cc[i] = ' '
	}
	return cc, nil
}

// Build lays out the database header, resource map, name table, and
// resource data in file order and returns the finished bytes.
func (b *Builder) Build(now time.Time) ([]byte, error) {
	dbType := b.DBType
	if dbType == "" {
		dbType = "appl"
	}
	creator, err := fourCC(b.Creator)
	if err != nil {
		return nil, err
	}
	dbTypeCC, err := fourCC(dbType)
	if err != nil {
		return nil, err
	}

	entries := b.buildEntries()

	mapSize := len(entries)*10 + 2
	nameTable := buildNameTable(entries)
	dataStart := headerSize + mapSize + len(nameTable)

	out := make([]byte, 0, dataStart)
	out = appendHeader(out, b.Name, creator, dbTypeCC, now, len(entries))

	offset := dataStart
	offsets := make([]int, len(entries))
	for i, e := range entries {
		offsets[i] = offset
		offset += len(e.Data)
	}
	for i, e := range entries {
		cc, err := fourCC(e.Type)
		if err != nil {
			return nil, err
		}
		out = append(out, cc[:]...)
		out = appendU16(out, uint16(e.ID))
		out = appendU32(out, uint32(offsets[i]))
	}
	out = appendU16(out, 0)
	out = append(out, nameTable...)

	for _, e := range entries {
		out = append(out, e.Data...)
	}
	return out, nil
}

const headerSize = 78

func appendHeader(out []byte, name string, creator, dbType [4]byte, now time.Time, numResources int) []byte {
	var nameField [32]byte
	copy(nameField[28:32], "Pila")
	copy(nameField[:28], name)
	out = append(out, nameField[:]...)

	out = appendU16(out, attrResDB|attrBackup|attrBundle)
	out = appendU16(out, 1) // version
	stamp := uint32(now.Unix() + macEpochOffset)
	out = appendU32(out, stamp) // creation date
	out = appendU32(out, stamp) // modification date
	out = appendU32(out, 0)     // last backup date
	out = appendU32(out, 0)     // modification number
	out = appendU32(out, 0)     // appInfoID
	out = appendU32(out, 0)     // sortInfoID
	out = append(out, dbType[:]...)
	out = append(out, creator[:]...)
	out = appendU32(out, 123456) // unique-ID seed
	out = appendU32(out, 0)      // next-record-list ID
	out = appendU16(out, uint16(numResources))
	return out
}

// buildEntries assembles the standard code/data resources (spec §6.3) ahead
// of any user-defined RES resources, in the fixed order PalmOS loaders
// expect: code #0 (the A5-world size header), code #1 (the raw code), data
// #0 (the compressed data segment), then everything from RES/INCBIN.
func (b *Builder) buildEntries() []Resource {
	var entries []Resource
	if !b.ResourceOnly {
		entries = append(entries, Resource{Type: "code", ID: 0, Data: codeHeader(len(b.Data))})
		entries = append(entries, Resource{Type: "code", ID: 1, Data: b.Code})
		entries = append(entries, Resource{Type: "data", ID: 0, Data: buildDataResource(b.Data)})
	}
	entries = append(entries, b.Resources...)
	return entries
}

// codeHeader builds the two-u32 code #0 resource: cbA is the uncompressed
// data segment's size, cbB is always zero (spec §6.3).
func codeHeader(dataSize int) []byte {
	var out []byte
	out = appendU32(out, uint32(dataSize))
	out = appendU32(out, 0)
	return out
}

// buildDataResource frames the compressed data segment per spec §6.4: a
// leading total-size u32, three offset-prefixed sub-blocks (only the first
// carries real data), then six zero u32 relocation tables. The first four
// bytes of the uncompressed data are the loader's SysAppInfo pointer slot;
// whatever the source assembled there is compressed and emitted as-is,
// since the loader overwrites it regardless.
func buildDataResource(data []byte) []byte {
	var out []byte
	out = appendU32(out, uint32(len(data)))

	out = appendU32(out, 0) // sub-block 1: A5-relative offset
	out = append(out, rle.Compress(data)...)
	out = append(out, 0)

	for i := 0; i < 2; i++ { // sub-blocks 2 and 3: empty
		out = appendU32(out, 0)
		out = append(out, 0)
	}
	for i := 0; i < 6; i++ { // empty relocation tables
		out = appendU32(out, 0)
	}
	return out
}

// buildNameTable emits the supplemented resource name table (spec_full
// §SUPPLEMENTED FEATURES item 4): a u16 count followed by, per named
// resource, its type/id and a length-prefixed name padded to an even
// total length.
func buildNameTable(entries []Resource) []byte {
	var named []Resource
	for _, e := range entries {
		if e.Name != "" {
			named = append(named, e)
		}
	}
	if len(named) == 0 {
		return nil
	}
	var out []byte
	out = appendU16(out, uint16(len(named)))
	for _, e := range named {
		cc, _ := fourCC(e.Type)
		out = append(out, cc[:]...)
		out = appendU16(out, uint16(e.ID))
		out = append(out, byte(len(e.Name)))
		out = append(out, e.Name...)
		if len(e.Name)%2 == 0 {
			out = append(out, 0)
		}
	}
	return out
}

func appendU16(b []byte, v uint16) []byte {
	return append(b, byte(v>>8), byte(v))
}

func appendU32(b []byte, v uint32) []byte {
	return append(b, byte(v>>24), byte(v>>16), byte(v>>8), byte(v))
}
