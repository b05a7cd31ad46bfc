package globals

import (
	"context"

	"bazaar/config"
)

// Cfg is the process-wide configuration, loaded once at startup.
var Cfg = config.Load()

// JwtSecret signs and verifies identity tokens.
var JwtSecret = []byte(Cfg.JWTSecret)

// Context keys
type ContextKey string

const UserIDKey ContextKey = "userId"
const UserKey ContextKey = "user"

var Ctx = context.Background()
