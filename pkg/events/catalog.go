// Package events defines the activation events workon ships with.
package events

import (
	"github.com/grovetools/workon/pkg/registry"
	"github.com/sirupsen/logrus"
)

// NewRegistry returns an initialized registry holding the core catalog
// followed by the extension catalog.
func NewRegistry(logger *logrus.Entry) *registry.Registry {
	r := registry.New(logger, Core(), Extension())
	r.Initialize()
	return r
}
