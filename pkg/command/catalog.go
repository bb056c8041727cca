// Package command defines the fixed, ordered set of commands a remote can broadcast.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/beaconmesh/beacon-remote/pkg/protocol"
)

var (
	ErrEmptyCatalog = errors.New("command catalog is empty")
	ErrInvalidLabel = errors.New("command labels must be non-empty printable ASCII")
	ErrLabelTooLong = fmt.Errorf("command labels must be at most %d bytes", protocol.MaxCommandLength)
)

// DefaultLabels is the catalog used by the reference deployment, cycled in this order.
var DefaultLabels = []string{"HELLO", "STOP", "GO", "ALERT", "SAFE"}

// Catalog is an immutable, non-empty list of command labels indexed 0..Count()-1. Every label is
// short enough to be advertised without truncation.
type Catalog struct {
	labels []string
}

// New returns a Catalog containing labels in order.
func New(labels ...string) (*Catalog, error) {
	if len(labels) == 0 {
		return nil, ErrEmptyCatalog
	}
	c := &Catalog{labels: make([]string, len(labels))}
	for i, label := range labels {
		if err := validate(label); err != nil {
			return nil, fmt.Errorf("%w: '%s'", err, label)
		}
		c.labels[i] = label
	}
	return c, nil
}

// Default returns the reference catalog.
func Default() *Catalog {
	c, err := New(DefaultLabels...)
	if err != nil {
		panic(err)
	}
	return c
}

// Parse builds a Catalog from a comma-separated list such as "HELLO,STOP,GO". Surrounding
// whitespace is ignored.
func Parse(list string) (*Catalog, error) {
	var labels []string
	for _, label := range strings.Split(list, ",") {
		if label = strings.TrimSpace(label); label != "" {
			labels = append(labels, label)
		}
	}
	return New(labels...)
}

func validate(label string) error {
	if label == "" {
		return ErrInvalidLabel
	}
	for i := 0; i < len(label); i++ {
		if label[i] < 0x20 || label[i] > 0x7e {
			return ErrInvalidLabel
		}
	}
	if len(label) > protocol.MaxCommandLength {
		return ErrLabelTooLong
	}
	return nil
}

// Count returns the number of commands.
func (c *Catalog) Count() int {
	return len(c.labels)
}

// Label returns the i-th command. It panics unless 0 <= i < Count().
func (c *Catalog) Label(i int) string {
	return c.labels[i]
}

// Labels returns a copy of the commands in order.
func (c *Catalog) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Next returns the index after i, wrapping to 0.
func (c *Catalog) Next(i int) int {
	return (i + 1) % len(c.labels)
}

// Previous returns the index before i, wrapping to Count()-1.
func (c *Catalog) Previous(i int) int {
	return (i - 1 + len(c.labels)) % len(c.labels)
}

func (c *Catalog) String() string {
	return strings.Join(c.labels, ",")
}
