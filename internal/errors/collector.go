package errors

import "fmt"

// Collector accumulates validation messages in the order they are found.
// The zero value is ready to use.
type Collector struct {
	msgs []string
}

// Add records a message.
func (c *Collector) Add(msg string) {
	c.msgs = append(c.msgs, msg)
}

// Addf records a formatted message.
func (c *Collector) Addf(format string, args ...any) {
	c.msgs = append(c.msgs, fmt.Sprintf(format, args...))
}

// Check records msg when ok is false and reports ok.
func (c *Collector) Check(ok bool, msg string) bool {
	if !ok {
		c.Add(msg)
	}
	return ok
}

// Empty reports whether nothing has been recorded.
func (c *Collector) Empty() bool {
	return len(c.msgs) == 0
}

// Messages returns a copy of the recorded messages.
func (c *Collector) Messages() []string {
	return append([]string(nil), c.msgs...)
}

// Err returns nil when empty, otherwise a VALIDATION error whose Details
// hold every message.
func (c *Collector) Err() error {
	if c.Empty() {
		return nil
	}
	msg := c.msgs[0]
	if len(c.msgs) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", c.msgs[0], len(c.msgs)-1)
	}
	return ValidationWithDetails(msg, c.Messages())
}
