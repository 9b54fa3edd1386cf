package ledger

import "errors"

var ErrNoSession = errors.New("no active session")
