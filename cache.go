package mot

import "github.com/sirupsen/logrus"

/*
Cache holds, per transport id, the datagroups seen so far for that
object's header run (type 3), body run (type 4), plus one shared
directory run (type 6) that can supply header metadata for objects whose
own type-3 run never arrives — "header mode" and "directory mode"
compilation from spec.md §4.5.

A run is complete once every segment index from 0 up to the one marked
Last has arrived; order of arrival does not matter. Completion is
checked incrementally on every Push rather than by periodic rescan,
which is what makes emission "greedy": an object is compiled and queued
the instant both its body and some source of metadata become complete,
without waiting for the rest of the carousel cycle.
*/

type datagroupRun struct {
	segments  map[int]Datagroup
	lastIndex int // -1 until a Last()==true segment has been seen
}

func newDatagroupRun() *datagroupRun {
	return &datagroupRun{segments: make(map[int]Datagroup), lastIndex: -1}
}

func (r *datagroupRun) add(dg Datagroup, maxSegments int, lg *logrus.Logger) {
	if _, exists := r.segments[dg.SegmentIndex()]; !exists && len(r.segments) >= maxSegments {
		lg.Warnf("transport %d: dropping segment %d, run already holds the %d-segment limit", dg.TransportID(), dg.SegmentIndex(), maxSegments)
		return
	}
	r.segments[dg.SegmentIndex()] = dg
	if dg.Last() {
		r.lastIndex = dg.SegmentIndex()
	}
}

func (r *datagroupRun) complete() bool {
	if r.lastIndex < 0 {
		return false
	}
	for i := 0; i <= r.lastIndex; i++ {
		if _, ok := r.segments[i]; !ok {
			return false
		}
	}
	return true
}

func (r *datagroupRun) concat() []byte {
	var buf []byte
	for i := 0; i <= r.lastIndex; i++ {
		buf = append(buf, r.segments[i].Data()...)
	}
	return buf
}

type directoryRecord struct {
	core   HeaderCore
	params []HeaderParameter
}

type objectEntry struct {
	header   *datagroupRun
	body     *datagroupRun
	seq      int
	compiled *MotObject
}

// Cache is the carousel reassembly state: it accumulates datagroups and
// hands back MotObjects as they become assemblable. It is not safe for
// concurrent use; callers with concurrent transport readers must
// serialize Push calls themselves.
type Cache struct {
	opt    *ReassemblerOption
	logger *logrus.Logger
	objs   map[uint16]*objectEntry
	seq    int
	ready  []uint16

	// emitted guards the single-emission property (spec.md §3/§8): once a
	// transport id has been popped by Next, its entry is deleted from objs
	// and the id is recorded here so late-arriving segments for it are
	// ignored instead of starting a new, never-to-be-delivered entry.
	emitted map[uint16]struct{}

	directory       *datagroupRun
	directoryParsed bool
	directoryTable  map[uint16]directoryRecord
}

func newCache(opt *ReassemblerOption) *Cache {
	return &Cache{
		opt:       opt,
		logger:    opt.logger,
		objs:      make(map[uint16]*objectEntry),
		emitted:   make(map[uint16]struct{}),
		directory: newDatagroupRun(),
	}
}

func (c *Cache) entry(transportID uint16) *objectEntry {
	e, ok := c.objs[transportID]
	if !ok {
		e = &objectEntry{header: newDatagroupRun(), body: newDatagroupRun(), seq: c.seq}
		c.seq++
		c.objs[transportID] = e
		c.evictIfFull()
	}
	return e
}

// evictIfFull drops the oldest not-yet-compiled entry once the cache
// holds more distinct transport ids than SetMaxCachedObjects allows,
// bounding memory against a carousel that never finishes an object
// (spec.md §5).
func (c *Cache) evictIfFull() {
	if len(c.objs) <= c.opt.maxCachedObjects {
		return
	}
	var oldestID uint16
	oldestSeq := -1
	for id, e := range c.objs {
		if e.compiled != nil {
			continue
		}
		if oldestSeq == -1 || e.seq < oldestSeq {
			oldestSeq = e.seq
			oldestID = id
		}
	}
	if oldestSeq != -1 {
		c.logger.Warnf("cache full, evicting incomplete transport %d", oldestID)
		delete(c.objs, oldestID)
	}
}

// alreadyEmitted reports whether transportID has already been delivered
// through Next, so Push can ignore late segments instead of resurrecting
// a tombstone entry.
func (c *Cache) alreadyEmitted(transportID uint16) bool {
	_, ok := c.emitted[transportID]
	return ok
}

// Push feeds one transport datagroup into the cache. Datagroups of an
// unrecognized Type are ignored.
func (c *Cache) Push(dg Datagroup) {
	switch dg.Type() {
	case DatagroupBody:
		if c.alreadyEmitted(dg.TransportID()) {
			return
		}
		e := c.entry(dg.TransportID())
		e.body.add(dg, c.opt.maxSegmentsPerObject, c.logger)
		c.tryCompile(dg.TransportID())
	case DatagroupHeader:
		if c.alreadyEmitted(dg.TransportID()) {
			return
		}
		e := c.entry(dg.TransportID())
		e.header.add(dg, c.opt.maxSegmentsPerObject, c.logger)
		c.tryCompile(dg.TransportID())
	case DatagroupDirectory:
		c.directory.add(dg, c.opt.maxSegmentsPerObject*4, c.logger)
		c.tryParseDirectory()
	default:
		c.logger.Warnf("transport %d: ignoring datagroup of unknown type %d", dg.TransportID(), dg.Type())
	}
}

func (c *Cache) tryParseDirectory() {
	if c.directoryParsed || !c.directory.complete() {
		return
	}
	_, table, err := parseDirectory(c.directory.concat(), c.logger)
	if err != nil {
		c.logger.Warnf("directory segment complete but failed to parse: %v", err)
		return
	}
	c.directoryParsed = true
	c.directoryTable = table
	for id := range table {
		if c.alreadyEmitted(id) {
			continue
		}
		c.tryCompile(id)
	}
}

// tryCompile attempts to compile the object for transportID from
// whatever metadata source is available, queuing it for Next() on
// success. It is idempotent: an already-compiled entry is left alone.
//
// The compiled body is emitted exactly as received on the wire. Whether
// CompressionParam names an algorithm is metadata for the caller to act
// on; decompression is an opt-in helper (DecompressBody) the consumer
// invokes itself, never something the reassembler does on its behalf
// (spec.md §10.6/§13).
func (c *Cache) tryCompile(transportID uint16) {
	e, ok := c.objs[transportID]
	if !ok || e.compiled != nil || !e.body.complete() {
		return
	}

	var core HeaderCore
	var params []HeaderParameter

	switch {
	case e.header.complete():
		c1, p1, err := decodeHeaderRun(e.header.concat(), c.logger)
		if err != nil {
			c.logger.Warnf("transport %d: header run complete but failed to decode: %v", transportID, err)
			return
		}
		core, params = c1, p1
	case c.directoryParsed:
		rec, ok := c.directoryTable[transportID]
		if !ok {
			return // body ready, but neither header run nor directory names this object yet
		}
		core, params = rec.core, rec.params
	default:
		return // metadata not available yet from either source
	}

	obj := &MotObject{
		transportID: transportID,
		contentType: core.ContentType,
		body:        e.body.concat(),
		parameters:  make(map[ParamKind]HeaderParameter, len(params)),
	}
	for _, p := range params {
		obj.AddParameter(p)
	}
	if !obj.HasParameter(ParamContentName) {
		c.logger.Warnf("transport %d: %v", transportID, newError(KindMissingName, "compiled object has no ContentName parameter"))
		return
	}

	e.compiled = obj
	c.ready = append(c.ready, transportID)
}

// decodeHeaderRun decodes a concatenated type-3 header run: the Header
// Core followed by parameters spanning the rest of HeaderCore.HeaderSize
// bytes.
func decodeHeaderRun(data []byte, lg *logrus.Logger) (HeaderCore, []HeaderParameter, error) {
	r := NewBitReader(data)
	core, err := DecodeHeaderCore(r)
	if err != nil {
		return HeaderCore{}, nil, err
	}
	params, err := ParseHeaderParameters(r, uint(core.HeaderSize)*8, lg)
	if err != nil {
		return HeaderCore{}, nil, err
	}
	return core, params, nil
}

// parseDirectory decodes a complete Directory segment body into its
// header and a table of per-object (HeaderCore, parameters) records
// keyed by transport id (spec.md §4.4/§4.5). A nil lg falls back to the
// package default logger.
func parseDirectory(data []byte, lg *logrus.Logger) (DirectoryHeader, map[uint16]directoryRecord, error) {
	if lg == nil {
		lg = _lg
	}
	r := NewBitReader(data)
	dh, err := DecodeDirectoryHeader(r)
	if err != nil {
		return DirectoryHeader{}, nil, err
	}

	extEnd := r.Pos() + uint(dh.DirectoryExtensionLength)*8
	for r.Pos() < extEnd {
		_, err := DecodeDirectoryParameter(r)
		if err != nil {
			if !IsErrUnknownHeaderParameter(err) {
				return dh, nil, err
			}
			me := err.(*Error)
			lg.Warnf("unknown directory parameter (0x%02x), skipping %d raw bytes", me.ParamID, len(me.Raw))
		}
	}

	table := make(map[uint16]directoryRecord, dh.NumberOfObjects)
	for i := 0; i < int(dh.NumberOfObjects); i++ {
		tid, err := r.ReadBits(16)
		if err != nil {
			return dh, table, newError(KindMalformedParameter, "directory entry %d: reading transport id: %v", i, err)
		}
		coreStart := r.Pos()
		core, err := DecodeHeaderCore(r)
		if err != nil {
			return dh, table, newError(KindMalformedParameter, "directory entry %d: %v", i, err)
		}
		paramEnd := coreStart + uint(core.HeaderSize)*8
		params, err := ParseHeaderParameters(r, paramEnd, lg)
		if err != nil {
			return dh, table, newError(KindMalformedParameter, "directory entry %d: %v", i, err)
		}
		table[uint16(tid)] = directoryRecord{core: core, params: params}
	}
	return dh, table, nil
}

// Next pops one assembled object in arrival order, deleting its entry
// from the cache so the transport id holds no state once delivered
// (spec.md §3 "entries are removed atomically when the corresponding
// MotObject is emitted"). Reports false if none is ready yet.
func (c *Cache) Next() (*MotObject, bool) {
	for len(c.ready) > 0 {
		id := c.ready[0]
		c.ready = c.ready[1:]
		e, ok := c.objs[id]
		if !ok || e.compiled == nil {
			continue
		}
		delete(c.objs, id)
		c.emitted[id] = struct{}{}
		return e.compiled, true
	}
	return nil, false
}
