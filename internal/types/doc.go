/*
Package types defines core data structures shared across dbedit.

# Overview

The types package provides shared type definitions for:
  - Records loaded from a container (key/value pairs)
  - Notifications relayed to the presentation layer
  - Save reports and save journal entries
  - Error kinds raised by the session, store, sink and controller

# Record Types

Record:
  - One row of the container table
  - Key is an opaque identifier supplied by the store
  - Value is arbitrary text, stored in canonical form by the session

# Notification Types

Notification:
  - Status is one of success, warning or error
  - Message is a short human readable summary
  - Err carries the underlying error, if any

# Errors

All error kinds are sentinel values wrapped with %w at the point of failure.
Callers classify them with errors.Is or with Classify:

	if errors.Is(err, types.ErrNoTargetBound) {
		// warn, the session stays usable
	}

	status := types.Classify(err) // StatusWarning or StatusError
*/
package types
