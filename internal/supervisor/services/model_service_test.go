// Deputyrec - Legislator Similarity Recommender
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/deputyrec

package services

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/thejerf/suture/v4"
)

func TestModelService_Success(t *testing.T) {
	var calls atomic.Int32
	svc := NewModelService(func(context.Context) error {
		calls.Add(1)
		return nil
	}, ModelServiceConfig{}, zerolog.Nop())

	if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve() error = %v, want ErrDoNotRestart", err)
	}
	if calls.Load() != 1 {
		t.Errorf("loader calls = %d, want 1", calls.Load())
	}
	if svc.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want default 3", svc.config.MaxAttempts)
	}
}

func TestModelService_RetriesThenGivesUp(t *testing.T) {
	loadErr := errors.New("dataset missing")
	var gaveUp error
	svc := NewModelService(func(context.Context) error {
		return loadErr
	}, ModelServiceConfig{
		MaxAttempts: 2,
		OnGiveUp:    func(err error) { gaveUp = err },
	}, zerolog.Nop())

	err := svc.Serve(context.Background())
	if !errors.Is(err, loadErr) {
		t.Errorf("first Serve() error = %v, want %v", err, loadErr)
	}
	if gaveUp != nil {
		t.Error("OnGiveUp called before MaxAttempts")
	}

	err = svc.Serve(context.Background())
	if !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("second Serve() error = %v, want ErrDoNotRestart", err)
	}
	if !errors.Is(gaveUp, loadErr) {
		t.Errorf("OnGiveUp error = %v, want %v", gaveUp, loadErr)
	}
	if svc.Attempts() != 2 {
		t.Errorf("Attempts() = %d, want 2", svc.Attempts())
	}
}

func TestModelService_Timeout(t *testing.T) {
	svc := NewModelService(func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return errors.New("no deadline")
		}
		return nil
	}, ModelServiceConfig{Timeout: time.Minute}, zerolog.Nop())

	if err := svc.Serve(context.Background()); !errors.Is(err, suture.ErrDoNotRestart) {
		t.Errorf("Serve() error = %v, want ErrDoNotRestart", err)
	}
}

func TestModelService_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	svc := NewModelService(func(ctx context.Context) error {
		return ctx.Err()
	}, ModelServiceConfig{MaxAttempts: 1, OnGiveUp: func(error) {
		t.Error("OnGiveUp called on cancellation")
	}}, zerolog.Nop())

	if err := svc.Serve(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() error = %v, want context.Canceled", err)
	}
}

func TestModelService_UnderSupervisor(t *testing.T) {
	var calls atomic.Int32
	svc := NewModelService(func(context.Context) error {
		if calls.Add(1) < 3 {
			return errors.New("transient")
		}
		return nil
	}, ModelServiceConfig{MaxAttempts: 5}, zerolog.Nop())

	sup := suture.New("test-sup", suture.Spec{
		FailureThreshold: 10,
		FailureBackoff:   10 * time.Millisecond,
		Timeout:          time.Second,
	})
	sup.Add(svc)

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	errCh := sup.ServeBackground(ctx)
	time.Sleep(200 * time.Millisecond)
	cancel()
	<-errCh

	if got := calls.Load(); got != 3 {
		t.Errorf("loader calls = %d, want 3", got)
	}
}
