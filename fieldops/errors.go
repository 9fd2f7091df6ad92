// SPDX-License-Identifier: MIT

package fieldops

import "errors"

// ErrUnknownIndex is returned for a mode index that was never registered.
var ErrUnknownIndex = errors.New("fieldops: index not registered")
