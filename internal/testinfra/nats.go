// Cartsense - Real-time Cart Recommendation Orchestration
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartsense

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	// DefaultNATSImage is the broker image used by integration tests.
	DefaultNATSImage = "nats:2.10-alpine"

	// DefaultNATSPort is the client port inside the container.
	DefaultNATSPort = "4222/tcp"

	// DefaultNATSStartupTimeout bounds image pull plus broker start.
	DefaultNATSStartupTimeout = 60 * time.Second
)

// NATSContainer is a running NATS broker reachable at URL.
type NATSContainer struct {
	testcontainers.Container
	URL string
}

type natsConfig struct {
	image string
}

// NATSOption customizes NewNATSContainer.
type NATSOption func(*natsConfig)

// WithNATSImage overrides the broker image, for example to match the
// nats-server version embedded in the binary.
func WithNATSImage(image string) NATSOption {
	return func(c *natsConfig) {
		c.image = image
	}
}

// NewNATSContainer starts a NATS broker and waits until it accepts clients.
// Callers own the container and should terminate it with CleanupContainer.
func NewNATSContainer(ctx context.Context, opts ...NATSOption) (*NATSContainer, error) {
	cfg := &natsConfig{image: DefaultNATSImage}
	for _, opt := range opts {
		opt(cfg)
	}

	req := testcontainers.ContainerRequest{
		Image:        cfg.image,
		ExposedPorts: []string{DefaultNATSPort},
		WaitingFor: wait.ForAll(
			wait.ForListeningPort(DefaultNATSPort),
			wait.ForLog("Server is ready"),
		).WithStartupTimeout(DefaultNATSStartupTimeout),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, fmt.Errorf("create nats container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, DefaultNATSPort)
	if err != nil {
		container.Terminate(ctx) //nolint:errcheck
		return nil, fmt.Errorf("get mapped port: %w", err)
	}

	return &NATSContainer{
		Container: container,
		URL:       fmt.Sprintf("nats://%s:%s", host, port.Port()),
	}, nil
}
