package events

import (
	"context"
	"errors"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
	"github.com/bytedance/sonic"

	"taskboard-api/domain"
)

type fakeQueue struct {
	messages []string
	err      error
}

func (f *fakeQueue) EnqueueMessage(ctx context.Context, content string, o *azqueue.EnqueueMessageOptions) (azqueue.EnqueueMessagesResponse, error) {
	if f.err != nil {
		return azqueue.EnqueueMessagesResponse{}, f.err
	}
	f.messages = append(f.messages, content)
	return azqueue.EnqueueMessagesResponse{}, nil
}

func TestPublishEncodesEvent(t *testing.T) {
	q := &fakeQueue{}
	p := &QueuePublisher{queue: q}

	ev := domain.Event{
		ID:         "e1",
		EntityType: "task",
		EntityID:   "t1",
		Type:       domain.TaskCreated,
		Data:       domain.Task{ID: "t1", Title: "T"},
		Time:       42,
	}
	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(q.messages) != 1 {
		t.Fatalf("expected one message, got %d", len(q.messages))
	}

	var got struct {
		ID       string         `json:"id"`
		EntityID string         `json:"entityId"`
		Type     string         `json:"type"`
		Data     map[string]any `json:"data"`
		Time     int64          `json:"time"`
	}
	if err := sonic.UnmarshalString(q.messages[0], &got); err != nil {
		t.Fatalf("decode message: %v", err)
	}
	if got.ID != "e1" || got.EntityID != "t1" || got.Type != domain.TaskCreated || got.Time != 42 {
		t.Fatalf("unexpected message: %#v", got)
	}
	if got.Data["title"] != "T" {
		t.Fatalf("unexpected data: %#v", got.Data)
	}
}

func TestPublishReturnsQueueError(t *testing.T) {
	p := &QueuePublisher{queue: &fakeQueue{err: errors.New("queue unavailable")}}
	if err := p.Publish(context.Background(), domain.Event{ID: "e1"}); err == nil {
		t.Fatal("expected error")
	}
}

func TestCreateWithoutClient(t *testing.T) {
	p := &QueuePublisher{queue: &fakeQueue{}}
	if err := p.Create(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
}
