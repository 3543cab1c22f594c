// Copyright (c) 2026 Melodia. All rights reserved.

package middleware

import (
	"log/slog"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/melodia-app/melodia/internal/platform/apperr"
	"github.com/melodia-app/melodia/internal/platform/constants"
	"github.com/melodia-app/melodia/internal/platform/ctxutil"
	"github.com/melodia-app/melodia/internal/platform/respond"
)

// CredentialThrottle applies a Redis-backed fixed-window counter per client IP
// to credential-guessing endpoints (login, password reset).
//
// # Why a second limiter?
//
// The global token-bucket in [RateLimit] is in-memory and per-process. The
// credential throttle is shared across all API replicas and survives restarts,
// so a distributed brute-force attempt cannot reset its budget by hopping
// between instances.
//
// # Failure Mode
//
// If Redis is unreachable the request is allowed through: the account-lockout
// policy in the auth service remains the authoritative defense, and
// availability of login matters more than the secondary throttle.
func CredentialThrottle(client *redis.Client) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

			key := constants.RedisPrefixThrottle + RealIP(request)
			ctx := request.Context()

			// INCR + first-write EXPIRE implements a fixed window counter.
			count, err := client.Incr(ctx, key).Result()
			if err != nil {
				ctxutil.GetLogger(ctx).Warn("credential_throttle_unavailable",
					slog.Any("error", err),
				)
				next.ServeHTTP(writer, request)
				return
			}

			if count == 1 {
				_ = client.Expire(ctx, key, constants.CredentialThrottleWindow).Err()
			}

			if count > int64(constants.CredentialThrottleLimit) {
				retryAfter := int(constants.CredentialThrottleWindow.Seconds())
				respond.Error(writer, request, apperr.RateLimited(retryAfter))
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
