// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates and recognises the identifiers used as primary keys.

New rows get Version 7 values: they sort by creation time, which keeps
PostgreSQL B-tree indexes compact.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {
	id, err := uuid.NewV7()

	// entropy failure is an unrecoverable system-level error
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// IsValid reports whether value is a UUID in its canonical textual form.
// Route parameters that fail this check are slugs.
func IsValid(value string) bool {
	return len(value) == 36 && uuid.Validate(value) == nil
}
