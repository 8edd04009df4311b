// Package usecasetest has fakes shared by the use case tests.
package usecasetest

import (
	"context"
	"sync"

	"github.com/khoahotran/virtual-study-partner/internal/application/service"
)

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu    sync.Mutex
	users []service.UserEvent
	views []service.ViewEvent
	Err   error
}

func (p *RecordingPublisher) PublishUserEvent(_ context.Context, evt service.UserEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.users = append(p.users, evt)
	return p.Err
}

func (p *RecordingPublisher) PublishViewEvent(_ context.Context, evt service.ViewEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.views = append(p.views, evt)
	return p.Err
}

func (p *RecordingPublisher) UserEvents() []service.UserEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.UserEvent(nil), p.users...)
}

func (p *RecordingPublisher) ViewEvents() []service.ViewEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]service.ViewEvent(nil), p.views...)
}
