package synthesis

import (
	"context"
	"errors"
	"testing"
)

func TestMockEchoesImage(t *testing.T) {
	mock := NewMock()
	img := testImage(8, 8)

	resp, err := mock.Synthesize(context.Background(), &Request{Image: img, Prompt: "x"})
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if resp.Image != img {
		t.Error("mock did not echo the conditioning image")
	}
}

func TestMockRecordsCalls(t *testing.T) {
	mock := NewMock()

	mock.Synthesize(context.Background(), &Request{Image: testImage(4, 4), Prompt: "one"})
	mock.Synthesize(context.Background(), &Request{Image: testImage(4, 4), Prompt: "two"})
	mock.Health(context.Background())

	if got := mock.CallCount("Synthesize"); got != 2 {
		t.Errorf("Synthesize count = %d, want 2", got)
	}
	if got := mock.CallCount("Health"); got != 1 {
		t.Errorf("Health count = %d, want 1", got)
	}

	calls := mock.Calls()
	if calls[0].Request.Prompt != "one" || calls[1].Request.Prompt != "two" {
		t.Errorf("recorded prompts wrong: %+v", calls)
	}

	mock.Reset()
	if got := mock.CallCount("Synthesize"); got != 0 {
		t.Errorf("after Reset count = %d, want 0", got)
	}
}

func TestMockWithError(t *testing.T) {
	boom := errors.New("boom")
	mock := WithError(boom)

	if _, err := mock.Synthesize(context.Background(), &Request{}); !errors.Is(err, boom) {
		t.Errorf("Synthesize error = %v, want boom", err)
	}
	if err := mock.Health(context.Background()); !errors.Is(err, boom) {
		t.Errorf("Health error = %v, want boom", err)
	}
}

func TestMockNoImage(t *testing.T) {
	mock := NewMock()
	if _, err := mock.Synthesize(context.Background(), &Request{}); !errors.Is(err, ErrNoImage) {
		t.Errorf("error = %v, want ErrNoImage", err)
	}
}
