package protocol

// Element is a single AD structure from an advertising payload.
type Element struct {
	Type byte
	Data []byte
}

// Elements splits an advertising payload into its AD structures. A zero length byte ends the
// significant part of the payload, as in padded controller buffers. Data slices alias payload.
//
// If the last structure claims more bytes than remain, it is returned with the bytes that are
// present together with ErrMalformedPayload.
func Elements(payload []byte) ([]Element, error) {
	var elements []Element
	for len(payload) > 0 {
		length := int(payload[0])
		if length == 0 {
			break
		}
		if length+1 > len(payload) {
			// Keep what survived a truncated encoding so callers can still use it.
			if len(payload) >= 2 {
				elements = append(elements, Element{Type: payload[1], Data: payload[2:]})
			}
			return elements, ErrMalformedPayload
		}
		elements = append(elements, Element{Type: payload[1], Data: payload[2 : length+1]})
		payload = payload[length+1:]
	}
	return elements, nil
}

// ServiceData returns the service UUID and data of the first 128-bit service data element in
// payload. Radio stacks that assemble the advertising packet themselves use it to re-express an
// encoded Packet as advertisement options.
func ServiceData(payload []byte) (ServiceID, []byte, error) {
	elements, err := Elements(payload)
	if err != nil && len(elements) == 0 {
		return ServiceID{}, nil, err
	}
	for _, e := range elements {
		if e.Type != ADTypeServiceData128 || len(e.Data) < ServiceIDLength {
			continue
		}
		var id ServiceID
		copy(id[:], e.Data)
		return id, e.Data[ServiceIDLength:], nil
	}
	if err != nil {
		return ServiceID{}, nil, err
	}
	return ServiceID{}, nil, ErrMissingServiceData
}
