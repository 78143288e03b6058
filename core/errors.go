/* MINFD - Multi-Interface NDN Forwarding Daemon
 *
 * Copyright (C) 2026 The MINFD Authors.
 *
 * This file is licensed under the terms of the MIT License, as found in LICENSE.md.
 */

package core

import "errors"

// Error definitions
var (
	ErrNotCanonical  = errors.New("URI could not be canonized")
	ErrFaceDown      = errors.New("face is down")
	ErrFrameTooLarge = errors.New("frame larger than MTU")
)
