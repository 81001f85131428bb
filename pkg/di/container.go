// Package di provides dependency injection container
package di

import (
	"github.com/ssargent/pixelsteg/pkg/api" //nolint:depguard
	"github.com/ssargent/pixelsteg/pkg/storage"
)

// StoreOpener opens the artifact store in a data directory
type StoreOpener func(dataDir string) (*storage.ArtifactStore, error)

// Container holds all the dependencies for the application
type Container struct {
	serverFactory api.ServerFactory
	storeOpener   StoreOpener
}

// NewContainer creates a new dependency injection container
func NewContainer() *Container {
	return &Container{
		serverFactory: api.NewServerFactory(),
		storeOpener:   storage.Open,
	}
}

// GetServerFactory returns the server factory
func (c *Container) GetServerFactory() api.ServerFactory {
	return c.serverFactory
}

// GetStoreOpener returns the artifact store opener
func (c *Container) GetStoreOpener() StoreOpener {
	return c.storeOpener
}

// SetServerFactory allows overriding the server factory (for testing)
func (c *Container) SetServerFactory(factory api.ServerFactory) {
	c.serverFactory = factory
}

// SetStoreOpener allows overriding the artifact store opener (for testing)
func (c *Container) SetStoreOpener(opener StoreOpener) {
	c.storeOpener = opener
}
