package events

import "errors"

var (
	// ErrBufferFull is returned when no worker took an event in time.
	ErrBufferFull = errors.New("event buffer full")
	// ErrPublisherClosed is returned after Close.
	ErrPublisherClosed = errors.New("event publisher closed")
)
