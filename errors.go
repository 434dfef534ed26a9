// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package aurora

import "errors"

// ErrInvalidColor is returned by ParseColor for strings that are not
// #rrggbb or #rgb hex colors.
var ErrInvalidColor = errors.New("aurora: invalid hex color")
