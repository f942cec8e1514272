package common

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestLoadTimeoutConfig(t *testing.T) {
	t.Setenv("READ_TIMEOUT", "7")
	t.Setenv("WRITE_TIMEOUT", "nope")
	cfg := LoadTimeoutConfig(TimeoutConfig{Read: time.Second, Write: 2 * time.Second})
	if cfg.Read != 7*time.Second {
		t.Errorf("Expected read timeout 7s, got %v", cfg.Read)
	}
	if cfg.Write != 2*time.Second {
		t.Errorf("Expected invalid value to keep default, got %v", cfg.Write)
	}
}

func TestRunHooksContinuesAfterError(t *testing.T) {
	ran := []int{}
	runHooks(context.Background(), time.Second, []ShutdownHook{
		func(ctx context.Context) error {
			ran = append(ran, 0)
			return errors.New("fail")
		},
		nil,
		func(ctx context.Context) error {
			ran = append(ran, 2)
			return nil
		},
	})
	if len(ran) != 2 || ran[1] != 2 {
		t.Errorf("Expected both hooks to run, got %v", ran)
	}
}
