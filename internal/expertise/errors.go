// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package expertise

import "errors"

// Input errors returned by UpdateProfiles. They fail the single publication
// and leave the store unchanged.
var (
	ErrInvalidDate   = errors.New("invalid publication date")
	ErrNoAuthors     = errors.New("publication has no authors")
	ErrInvalidAuthor = errors.New("invalid author record")
)
