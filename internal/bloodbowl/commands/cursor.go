package commands

// Cursor is a single-consumer cursor over a command stream with one command of
// lookahead. Network commands are skipped.
type Cursor struct {
	cmds []Command
	pos  int
}

// NewCursor creates a cursor over the commands in stream order.
func NewCursor(cmds []Command) *Cursor {
	filtered := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		if _, ok := cmd.(*Network); ok {
			continue
		}
		filtered = append(filtered, cmd)
	}
	return &Cursor{cmds: filtered}
}

// Peek returns the next command without consuming it.
func (c *Cursor) Peek() (Command, bool) {
	if c.pos >= len(c.cmds) {
		return nil, false
	}
	return c.cmds[c.pos], true
}

// Next consumes and returns the next command.
func (c *Cursor) Next() (Command, bool) {
	cmd, ok := c.Peek()
	if ok {
		c.pos++
	}
	return cmd, ok
}

// Consumed returns how many commands have been read.
func (c *Cursor) Consumed() int {
	return c.pos
}

// Remaining returns how many commands are still unread.
func (c *Cursor) Remaining() int {
	return len(c.cmds) - c.pos
}

// Len returns the number of commands the cursor covers.
func (c *Cursor) Len() int {
	return len(c.cmds)
}
