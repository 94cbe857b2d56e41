// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package middleware holds the HTTP decorators every reader request passes
through before it reaches a domain handler.

Registration order in the server:

  - RequestID, then StructuredLogger, so every log line carries the ID.
  - PanicRecovery, inside the logger so a recovered panic still logs a 500.
  - Under /api/v1 only: RateLimit, then CORS so preflights never reach
    token verification, then Authenticate. RequireAuth is added per route.
*/
package middleware
