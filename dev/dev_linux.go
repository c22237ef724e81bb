package dev

import (
	"context"

	"github.com/pkg/errors"

	"github.com/D0ntPanic/btleplug"
	"github.com/D0ntPanic/btleplug/linux"
)

// DefaultAdapter returns an Adapter backed by the first BlueZ adapter,
// on a fresh session.
func DefaultAdapter(ctx context.Context) (*btleplug.Adapter, error) {
	s, err := linux.NewSession()
	if err != nil {
		return nil, errors.Wrap(err, "can't create session")
	}
	adapters, err := s.Adapters(ctx)
	if err != nil {
		s.Close()
		return nil, err
	}
	if len(adapters) == 0 {
		s.Close()
		return nil, errors.New("no adapters found")
	}
	return btleplug.NewAdapter(s, adapters[0].ID), nil
}
