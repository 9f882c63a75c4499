// Vitrine - Real-Time Engagement and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vitrine

//go:build integration

// Package testinfra provides testcontainers helpers for integration tests.
// Everything here is behind the integration build tag.
package testinfra

import (
	"context"
	"os/exec"
	"testing"
	"time"
)

// dockerProbeTimeout bounds the `docker info` availability probe.
const dockerProbeTimeout = 5 * time.Second

// DockerAvailable reports whether a Docker daemon answers.
func DockerAvailable() bool {
	ctx, cancel := context.WithTimeout(context.Background(), dockerProbeTimeout)
	defer cancel()
	return exec.CommandContext(ctx, "docker", "info").Run() == nil
}

// StartRedis starts a Redis container for the test and terminates it on
// cleanup. The test is skipped when Docker is unavailable.
func StartRedis(t *testing.T, opts ...RedisOption) *RedisContainer {
	t.Helper()
	if !DockerAvailable() {
		t.Skip("docker not available")
	}

	ctx := context.Background()
	rc, err := NewRedisContainer(ctx, opts...)
	if err != nil {
		t.Fatalf("start redis: %v", err)
	}
	t.Cleanup(func() {
		if err := rc.Terminate(context.Background()); err != nil {
			t.Logf("terminate redis container: %v", err)
		}
	})
	return rc
}
