package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/2beens/fitpulse/internal/telemetry/tracing"
	"github.com/2beens/fitpulse/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "fitpulse-session||"
	tokensSetKey     = "fitpulse-sessions"
	tokenBytes       = 35
)

var ErrSessionNotFound = errors.New("session not found")

// Service maps login tokens to user ids. Sessions expire after ttl.
type Service struct {
	redisClient *redis.Client
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewService(ttl time.Duration, redisClient *redis.Client) *Service {
	return &Service{
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

func (as *Service) Login(ctx context.Context, userID int) (_ string, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.login")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	token, err := as.RandStringFunc(tokenBytes)
	if err != nil {
		return "", err
	}

	sessionKey := sessionKeyPrefix + token
	if err := as.redisClient.Set(ctx, sessionKey, userID, as.ttl).Err(); err != nil {
		return "", err
	}

	// add token to list of sessions
	if err := as.redisClient.SAdd(ctx, tokensSetKey, token).Err(); err != nil {
		return "", err
	}

	return token, nil
}

// UserID resolves a token to the id of the logged user.
func (as *Service) UserID(ctx context.Context, token string) (_ int, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.userid")
	defer func() {
		if errors.Is(err, ErrSessionNotFound) {
			span.End()
			return
		}
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if token == "" {
		return 0, ErrSessionNotFound
	}

	val, err := as.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrSessionNotFound
		}
		return 0, err
	}

	userID, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("parse session user id: %w", err)
	}

	return userID, nil
}

// Logout removes the session. Returns false if there was no such session.
func (as *Service) Logout(ctx context.Context, token string) (_ bool, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "auth.logout")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	deleted, err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Result()
	if err != nil {
		return false, err
	}

	// remove token from the list of sessions
	if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
		return false, err
	}

	return deleted > 0, nil
}

// ScanAndClean drops tokens of expired sessions from the sessions set.
func (as *Service) ScanAndClean(ctx context.Context) {
	sessionTokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	cleaned := 0
	for _, token := range sessionTokens {
		exists, err := as.redisClient.Exists(ctx, sessionKeyPrefix+token).Result()
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}
		if exists > 0 {
			continue
		}

		if err := as.redisClient.SRem(ctx, tokensSetKey, token).Err(); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
			continue
		}
		cleaned++
	}

	log.Debugf("=> auth service, scan and clean done, %d expired sessions removed", cleaned)
}
