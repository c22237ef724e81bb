//go:build !linux

package dev

import (
	"context"

	"github.com/pkg/errors"

	"github.com/D0ntPanic/btleplug"
)

// DefaultAdapter returns the platform's default adapter.
func DefaultAdapter(ctx context.Context) (*btleplug.Adapter, error) {
	return nil, errors.New("no session backend for this platform")
}
