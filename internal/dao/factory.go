// SPDX-License-Identifier: Apache-2.0
// Copyright Authors of infitab

package dao

import (
	"github.com/infitab/infitab/internal/backend"
)

// BackendFactory implements the Factory interface over a REST client.
type BackendFactory struct {
	client *backend.Client
}

// NewFactory creates a new BackendFactory with the given client.
func NewFactory(client *backend.Client) *BackendFactory {
	return &BackendFactory{client: client}
}

// Backend returns the REST client.
func (f *BackendFactory) Backend() Backend {
	return f.client
}

// BaseURL returns the backend root the client talks to.
func (f *BackendFactory) BaseURL() string {
	if f.client == nil {
		return ""
	}
	return f.client.BaseURL()
}
