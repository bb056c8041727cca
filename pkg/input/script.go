package input

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/google/shlex"

	"github.com/beaconmesh/beacon-remote/internal/log"
)

var ErrSyntax = errors.New("invalid script line")

// maxRepeat bounds the repeat count; one full wrap of the sequence counter.
const maxRepeat = 1 << 16

// Script reads key events from text, one instruction per line:
//
//	up              # short press of Up
//	down 3          # three short presses of Down
//	long ok         # a long press of OK, which a beacon ignores
//	send            # aliases: next, prev, send, exit, ...
//
// Lines that cannot be parsed are logged and skipped. Run returns nil at the end of the input.
type Script struct {
	r io.Reader
}

// NewScript returns a Source reading instructions from r.
func NewScript(r io.Reader) *Script {
	return &Script{r: r}
}

func (s *Script) Run(ctx context.Context, out chan<- Event) error {
	scanner := bufio.NewScanner(s.r)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		events, err := ParseLine(scanner.Text())
		if err != nil {
			log.Warning("script line %d: %s", lineNo, err)
			continue
		}
		for _, ev := range events {
			if err := send(ctx, out, ev); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading script: %w", err)
	}
	return nil
}

// ParseLine parses one script instruction. Blank lines and comments yield no events.
func ParseLine(line string) ([]Event, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrSyntax, err)
	}
	if len(args) == 0 {
		return nil, nil
	}
	if len(args) > 3 {
		return nil, fmt.Errorf("%w: too many arguments", ErrSyntax)
	}

	kind := KindShort
	if k, err := ParseKind(args[0]); err == nil {
		kind = k
		args = args[1:]
		if len(args) == 0 {
			return nil, fmt.Errorf("%w: missing key", ErrSyntax)
		}
	}

	key, err := ParseKey(args[0])
	if err != nil {
		return nil, err
	}

	count := 1
	switch len(args) {
	case 1:
	case 2:
		count, err = strconv.Atoi(args[1])
		if err != nil || count < 1 || count > maxRepeat {
			return nil, fmt.Errorf("%w: bad repeat count '%s'", ErrSyntax, args[1])
		}
	default:
		return nil, fmt.Errorf("%w: too many arguments", ErrSyntax)
	}

	events := make([]Event, count)
	for i := range events {
		events[i] = Event{Key: key, Kind: kind}
	}
	return events, nil
}
