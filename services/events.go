package services

import "tableserve/ws"

// EventPublisher is what services need from the broadcaster. Kept as an
// interface so tests can capture published events.
type EventPublisher interface {
	Publish(kind ws.EventKind, scopeID uint, payload any)
}

// nopPublisher lets services run without a hub wired in.
type nopPublisher struct{}

func (nopPublisher) Publish(ws.EventKind, uint, any) {}
