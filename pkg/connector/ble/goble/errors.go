package goble

import "errors"

var ErrAdapterInvalidID = errors.New("the bluetooth adapter ID is invalid")
