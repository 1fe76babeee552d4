package feed_test

import (
	"sync/atomic"

	"samadhan/backend/internal/models"
)

type mockClient struct {
	id       string
	recv     chan models.ComplaintEvent
	watching map[string]bool
	closed   atomic.Bool
}

func newMockClient(id string, buffer int) *mockClient {
	return &mockClient{
		id:   id,
		recv: make(chan models.ComplaintEvent, buffer),
	}
}

func (m *mockClient) GetUserID() string { return m.id }

func (m *mockClient) GetSendChannel() chan<- models.ComplaintEvent { return m.recv }

func (m *mockClient) WantsEvent(ev models.ComplaintEvent) bool {
	if len(m.watching) == 0 {
		return true
	}
	return m.watching[ev.ComplaintID]
}

func (m *mockClient) Run() {}

func (m *mockClient) Close() { m.closed.Store(true) }
