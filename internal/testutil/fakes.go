package testutil

import (
	"context"
	"sync"

	"github.com/dalemusser/daycarehub/internal/app/system/push"
)

// FakeBlobs records deletions. Paths listed in Fail return the mapped error.
type FakeBlobs struct {
	mu      sync.Mutex
	Deleted []string
	Fail    map[string]error
}

func (f *FakeBlobs) Delete(_ context.Context, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.Fail[path]; err != nil {
		return err
	}
	f.Deleted = append(f.Deleted, path)
	return nil
}

// FakePush records sent messages. When Err is set every send fails with it.
type FakePush struct {
	mu   sync.Mutex
	Sent []push.Message
	Err  error
}

func (f *FakePush) Send(_ context.Context, msg push.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Err != nil {
		return "", f.Err
	}
	f.Sent = append(f.Sent, msg)
	return "projects/test/messages/1", nil
}
