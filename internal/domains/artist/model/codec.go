package model

import (
	"encoding/binary"
	"fmt"
)

// Record is any of the typed records stored in an account
type Record interface {
	Kind() RecordKind
	encode(e *encoder)
	decode(d *decoder)
}

// EncodeRecord serializes r into a zero padded buffer of exactly MaxSize(r.Kind()) bytes
func EncodeRecord(r Record) ([]byte, error) {
	kind := r.Kind()
	limit := MaxSize(kind)
	e := &encoder{buf: make([]byte, 0, limit), limit: limit}
	disc := discriminators[kind]
	e.raw(disc[:])
	r.encode(e)
	if e.err != nil {
		return nil, NewArtistErrorf(e.err, "%s needs more than %d bytes", kind, limit)
	}
	return e.buf[:limit], nil
}

// DecodeRecord fills r from data produced by EncodeRecord
func DecodeRecord(data []byte, r Record) error {
	d := &decoder{buf: data}
	var disc [discriminatorSize]byte
	copy(disc[:], d.raw(discriminatorSize))
	if d.err != nil {
		return d.err
	}
	if disc != discriminators[r.Kind()] {
		return fmt.Errorf("decode %s: %w", r.Kind(), ErrRecordKindMismatch)
	}
	r.decode(d)
	if d.err != nil {
		return fmt.Errorf("decode %s: %w", r.Kind(), d.err)
	}
	return nil
}

// =====================================================
// ENCODER
// =====================================================

type encoder struct {
	buf   []byte
	limit int
	err   error
}

func (e *encoder) raw(b []byte) {
	if e.err != nil {
		return
	}
	if len(e.buf)+len(b) > e.limit {
		e.err = ErrRecordTooLarge
		return
	}
	e.buf = append(e.buf, b...)
}

func (e *encoder) u8(v uint8) { e.raw([]byte{v}) }

func (e *encoder) boolean(v bool) {
	if v {
		e.u8(1)
		return
	}
	e.u8(0)
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	e.raw(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	e.raw(b[:])
}

func (e *encoder) i64(v int64) { e.u64(uint64(v)) }

func (e *encoder) key(k Key) { e.raw(k[:]) }

func (e *encoder) str(s string) {
	e.u32(uint32(len(s)))
	e.raw([]byte(s))
}

func (e *encoder) strs(list []string) {
	e.u32(uint32(len(list)))
	for _, s := range list {
		e.str(s)
	}
}

func (e *encoder) optStr(s *string) {
	if s == nil {
		e.u8(0)
		return
	}
	e.u8(1)
	e.str(*s)
}

// =====================================================
// DECODER
// =====================================================

type decoder struct {
	buf []byte
	off int
	err error
}

func (d *decoder) raw(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || d.off+n > len(d.buf) {
		d.err = ErrRecordCorrupt
		return nil
	}
	b := d.buf[d.off : d.off+n]
	d.off += n
	return b
}

func (d *decoder) u8() uint8 {
	b := d.raw(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (d *decoder) boolean() bool {
	switch d.u8() {
	case 0:
		return false
	case 1:
		return true
	default:
		if d.err == nil {
			d.err = ErrRecordCorrupt
		}
		return false
	}
}

func (d *decoder) u32() uint32 {
	b := d.raw(4)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint32(b)
}

func (d *decoder) u64() uint64 {
	b := d.raw(8)
	if b == nil {
		return 0
	}
	return binary.LittleEndian.Uint64(b)
}

func (d *decoder) i64() int64 { return int64(d.u64()) }

func (d *decoder) key() Key {
	var k Key
	copy(k[:], d.raw(KeyLength))
	return k
}

func (d *decoder) str() string {
	n := d.u32()
	return string(d.raw(int(n)))
}

func (d *decoder) strs() []string {
	n := int(d.u32())
	if d.err != nil {
		return nil
	}
	// every element needs at least its length prefix
	if n*lengthPrefixSize > len(d.buf)-d.off {
		d.err = ErrRecordCorrupt
		return nil
	}
	list := make([]string, 0, n)
	for i := 0; i < n; i++ {
		list = append(list, d.str())
	}
	return list
}

func (d *decoder) optStr() *string {
	switch d.u8() {
	case 0:
		return nil
	case 1:
		s := d.str()
		return &s
	default:
		if d.err == nil {
			d.err = ErrRecordCorrupt
		}
		return nil
	}
}

// =====================================================
// RECORD LAYOUTS
// =====================================================

func (p *ArtistProfile) encode(e *encoder) {
	e.key(p.Owner)
	e.str(p.Name)
	e.str(p.Bio)
	e.strs(p.Links)
	e.u64(p.FollowerCount)
	e.u64(p.TotalTips)
	e.u8(p.WorkCount)
	e.u8(p.Bump)
}

func (p *ArtistProfile) decode(d *decoder) {
	p.Owner = d.key()
	p.Name = d.str()
	p.Bio = d.str()
	p.Links = d.strs()
	p.FollowerCount = d.u64()
	p.TotalTips = d.u64()
	p.WorkCount = d.u8()
	p.Bump = d.u8()
}

func (f *FollowerAccount) encode(e *encoder) {
	e.key(f.Follower)
	e.key(f.Artist)
	e.boolean(f.IsFollowing)
	e.u8(f.Bump)
}

func (f *FollowerAccount) decode(d *decoder) {
	f.Follower = d.key()
	f.Artist = d.key()
	f.IsFollowing = d.boolean()
	f.Bump = d.u8()
}

func (w *Work) encode(e *encoder) {
	e.key(w.Artist)
	e.str(w.Title)
	e.str(w.Description)
	e.str(w.ContentURL)
	e.u64(w.Likes)
	e.u64(w.CommentCount)
	e.i64(w.Timestamp)
	e.u8(w.Bump)
}

func (w *Work) decode(d *decoder) {
	w.Artist = d.key()
	w.Title = d.str()
	w.Description = d.str()
	w.ContentURL = d.str()
	w.Likes = d.u64()
	w.CommentCount = d.u64()
	w.Timestamp = d.i64()
	w.Bump = d.u8()
}

func (i *Interaction) encode(e *encoder) {
	e.key(i.User)
	e.key(i.Work)
	e.boolean(i.HasLiked)
	e.optStr(i.Comment)
	e.i64(i.Timestamp)
	e.u8(i.Bump)
}

func (i *Interaction) decode(d *decoder) {
	i.User = d.key()
	i.Work = d.key()
	i.HasLiked = d.boolean()
	i.Comment = d.optStr()
	i.Timestamp = d.i64()
	i.Bump = d.u8()
}

func (c *CollabRequest) encode(e *encoder) {
	e.key(c.Requester)
	e.key(c.Artist)
	e.str(c.Description)
	e.u8(uint8(c.Status))
	e.i64(c.Timestamp)
	e.u8(c.Bump)
}

func (c *CollabRequest) decode(d *decoder) {
	c.Requester = d.key()
	c.Artist = d.key()
	c.Description = d.str()
	c.Status = CollabStatus(d.u8())
	if d.err == nil && !c.Status.valid() {
		d.err = ErrRecordCorrupt
	}
	c.Timestamp = d.i64()
	c.Bump = d.u8()
}

func (c *ClosedProfile) encode(e *encoder) {
	e.key(c.Owner)
	e.u64(c.FollowerCount)
	e.u8(c.WorkCount)
	e.i64(c.ClosedAt)
	e.u8(c.Bump)
}

func (c *ClosedProfile) decode(d *decoder) {
	c.Owner = d.key()
	c.FollowerCount = d.u64()
	c.WorkCount = d.u8()
	c.ClosedAt = d.i64()
	c.Bump = d.u8()
}
