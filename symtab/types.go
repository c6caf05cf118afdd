/*
 * PRC68K - Type descriptor arena.
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

package symtab

// TypeKind distinguishes the shape of a type descriptor.
type TypeKind int

const (
	TypeSimple TypeKind = iota // byte/word/long, sizeof only.
	TypePointer
	TypeArray
	TypeStruct
	TypeUnion
	TypeEnum
	TypeAlias
	TypeProc // A PROCDEF/TRAPDEF signature.
)

// Member is one field of a struct/union, or one constant of an enum.
type Member struct {
	Name   string
	Offset int32 // Byte offset (struct/union) or constant value (enum).
	Type   int   // Index into Table.Types, or -1 for a plain scalar member.
}

// TypeDesc is one entry in the type arena. Pointer and array types refer to
// their base/element type by arena index rather than by direct reference,
// so the graph of derived types never needs a back-chain: any symbol can
// ask the table to intern "pointer to T" or "array of N T" and get a stable
// index back.
type TypeDesc struct {
	DisplayName string
	Kind        TypeKind
	Size        int32 // sizeof, in bytes.
	Base        int   // Index of pointee/element type, or -1.
	Count       int32 // Array element count (TypeArray only).
	Members     []Member
}
