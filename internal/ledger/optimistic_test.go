package ledger

import (
	"context"
	"errors"
	"testing"
)

func TestOptimisticCommit(t *testing.T) {
	favorite := false
	err := Optimistic(context.Background(),
		func() { favorite = true },
		func(context.Context) error { return nil },
		func() { favorite = false },
	)
	if err != nil {
		t.Fatalf("Optimistic: %v", err)
	}
	if !favorite {
		t.Fatalf("committed change was rolled back")
	}
}

func TestOptimisticRollback(t *testing.T) {
	favorite := false
	boom := errors.New("boom")
	err := Optimistic(context.Background(),
		func() { favorite = true },
		func(context.Context) error { return boom },
		func() { favorite = false },
	)
	if !errors.Is(err, boom) {
		t.Fatalf("err=%v, want boom", err)
	}
	if favorite {
		t.Fatalf("failed change was not rolled back")
	}
}
