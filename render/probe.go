// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"errors"
	"fmt"
)

// Probe acquires a context on s, trying modern first and then baseline.
// A nil acquirer is skipped.
//
// When neither tier is available the error wraps ErrContextUnavailable and
// every tier's cause.
func Probe(s Surface, modern, baseline Acquirer) (Context, error) {
	errs := []error{ErrContextUnavailable}
	for _, try := range []struct {
		tier    Tier
		acquire Acquirer
	}{
		{TierModern, modern},
		{TierBaseline, baseline},
	} {
		if try.acquire == nil {
			continue
		}
		ctx, err := try.acquire(s)
		if err == nil && ctx != nil {
			return ctx, nil
		}
		if err == nil {
			err = errors.New("acquirer returned no context")
		}
		errs = append(errs, fmt.Errorf("%v tier: %w", try.tier, err))
	}
	return nil, errors.Join(errs...)
}
