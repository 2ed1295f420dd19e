package logreader

// Cursor walks the entries of a batch list in order with one entry of
// lookahead. Batch boundaries are visible through PeekInBatch and BatchIndex.
type Cursor struct {
	batches []Batch
	batch   int
	entry   int
	total   int
	read    int
}

// NewCursor creates a cursor positioned at the first entry.
func NewCursor(batches []Batch) *Cursor {
	c := &Cursor{batches: batches}
	for _, b := range batches {
		c.total += len(b.Entries)
	}
	c.skipEmpty()
	return c
}

func (c *Cursor) skipEmpty() {
	for c.batch < len(c.batches) && c.entry >= len(c.batches[c.batch].Entries) {
		c.batch++
		c.entry = 0
	}
}

// Peek returns the next entry without consuming it.
func (c *Cursor) Peek() (Entry, bool) {
	if c.batch >= len(c.batches) {
		return nil, false
	}
	return c.batches[c.batch].Entries[c.entry], true
}

// Next consumes and returns the next entry.
func (c *Cursor) Next() (Entry, bool) {
	e, ok := c.Peek()
	if !ok {
		return nil, false
	}
	c.entry++
	c.read++
	c.skipEmpty()
	return e, true
}

// PeekInBatch returns the next entry only if it belongs to the same batch as
// the most recently consumed entry.
func (c *Cursor) PeekInBatch() (Entry, bool) {
	if c.entry == 0 {
		return nil, false
	}
	return c.Peek()
}

// BatchIndex returns the index of the batch the next entry belongs to.
func (c *Cursor) BatchIndex() int {
	return c.batch
}

// Remaining returns how many entries are still unread.
func (c *Cursor) Remaining() int {
	return c.total - c.read
}

// Consumed returns how many entries have been read.
func (c *Cursor) Consumed() int {
	return c.read
}
