package core

import (
	"encoding/base64"
	"encoding/binary"
	"fmt"
)

// Save is the persisted layout of a board for one puzzle.
//
// Data holds one record per placed tile, in board index order. A record is a
// header integer packing dir | kind<<2 | index<<5, followed by one integer per
// slot in Keys order packing (pressure-1) | colorCode<<2, where colorCode is 0
// for ColorNone.
type Save struct {
	PuzzleID int
	Data     []int
}

// SaveState encodes the board. It returns false when no tile is placed.
// A label that cannot be packed is a defect and panics; Board.Validate
// reports it as an error beforehand.
func SaveState(p *Puzzle, b *Board) (*Save, bool) {
	if b.IsEmpty() {
		return nil, false
	}
	if err := b.Validate(); err != nil {
		panic("core: cannot save board: " + err.Error())
	}
	s := &Save{PuzzleID: p.ID}
	b.Each(func(c Coord, t *Tile) {
		s.Data = append(s.Data, int(t.Dir)|int(t.Kind)<<2|b.Index(c)<<5)
		for _, k := range t.Keys() {
			prop := t.Property(k)
			s.Data = append(s.Data, (prop.Pressure-1)|int(prop.Color)<<2)
		}
	})
	return s, true
}

// RestoreState replaces the board with the saved layout. A save for a
// different puzzle is ignored. Malformed data leaves the board untouched.
func RestoreState(s *Save, p *Puzzle, b *Board) error {
	if s == nil || s.PuzzleID != p.ID {
		return nil
	}
	restored, err := decodeBoard(s.Data, b.Width())
	if err != nil {
		return err
	}
	b.Clear()
	restored.Each(func(c Coord, t *Tile) {
		b.Set(c, t)
	})
	return nil
}

func decodeBoard(data []int, width int) (*Board, error) {
	out := NewBoard(width)
	for i := 0; i < len(data); {
		header := data[i]
		i++
		if header < 0 {
			return nil, fmt.Errorf("%w: negative header %d", ErrMalformedSave, header)
		}

		dir := Direction(header & 0b11)
		kind := TileKind((header >> 2) & 0b111)
		index := header >> 5
		if !kind.Valid() {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSave, &UnknownKindError{Kind: kind})
		}
		if index >= width*width {
			return nil, fmt.Errorf("%w: index %d outside %dx%d board", ErrMalformedSave, index, width, width)
		}
		pos := out.CoordOf(index)
		if out.At(pos) != nil {
			return nil, fmt.Errorf("%w: two tiles at %s", ErrMalformedSave, pos)
		}

		t := NewTile(kind, dir)
		for _, k := range t.Keys() {
			if i >= len(data) {
				return nil, fmt.Errorf("%w: record at %s is truncated", ErrMalformedSave, pos)
			}
			v := data[i]
			i++
			color := Color(v >> 2)
			if v < 0 || (color != ColorNone && !color.Valid()) {
				return nil, fmt.Errorf("%w: bad property %d at %s", ErrMalformedSave, v, pos)
			}
			*t.Property(k) = Property{Color: color, Pressure: v&0b11 + 1}
		}
		out.Set(pos, t)
	}
	return out, nil
}

// Code returns a printable share code: unsigned varints of the puzzle id, the
// number of integers, and every integer, encoded as unpadded base64url.
func (s *Save) Code() string {
	buf := binary.AppendUvarint(nil, uint64(s.PuzzleID))
	buf = binary.AppendUvarint(buf, uint64(len(s.Data)))
	for _, v := range s.Data {
		buf = binary.AppendUvarint(buf, uint64(v))
	}
	return base64.RawURLEncoding.EncodeToString(buf)
}

// ParseCode decodes a share code produced by Code.
func ParseCode(code string) (*Save, error) {
	buf, err := base64.RawURLEncoding.DecodeString(code)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSave, err)
	}

	next := func() (int, error) {
		v, n := binary.Uvarint(buf)
		if n <= 0 || v > 1<<31-1 {
			return 0, fmt.Errorf("%w: bad varint", ErrMalformedSave)
		}
		buf = buf[n:]
		return int(v), nil
	}

	id, err := next()
	if err != nil {
		return nil, err
	}
	count, err := next()
	if err != nil {
		return nil, err
	}
	if count > len(buf) {
		return nil, fmt.Errorf("%w: %d integers declared, %d bytes left", ErrMalformedSave, count, len(buf))
	}

	s := &Save{PuzzleID: id, Data: make([]int, 0, count)}
	for range count {
		v, err := next()
		if err != nil {
			return nil, err
		}
		s.Data = append(s.Data, v)
	}
	if len(buf) != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedSave, len(buf))
	}
	return s, nil
}
