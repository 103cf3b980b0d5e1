package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/provider"
)

// SleepDataService is the facade over the provider clients: it dispatches
// by provider identifier to the right authentication flow and
// fetch+normalize pipeline so callers get one uniform error surface.
type SleepDataService struct {
	clients map[provider.ID]provider.Client
	logger  internal.Logger
}

func NewSleepDataService(logger internal.Logger, clients ...provider.Client) *SleepDataService {
	m := make(map[provider.ID]provider.Client, len(clients))
	for _, c := range clients {
		m[c.ID()] = c
	}
	return &SleepDataService{clients: m, logger: logger}
}

func (s *SleepDataService) client(p provider.ID) (provider.Client, error) {
	c, ok := s.clients[p]
	if !ok {
		return nil, fmt.Errorf("%w: %s", internal.ErrUnknownProvider, p)
	}
	return c, nil
}

// RequiresCredential reports whether the provider needs a stored
// credential before data can be fetched.
func (s *SleepDataService) RequiresCredential(p provider.ID) (bool, error) {
	c, err := s.client(p)
	if err != nil {
		return false, err
	}
	return c.RequiresCredential(), nil
}

// StartAuth begins the provider's credential-acquisition flow and returns
// the consent URL the caller should redirect to. Providers without an
// interactive flow return ErrCompanionAppRequired instead.
func (s *SleepDataService) StartAuth(p provider.ID) (string, error) {
	c, err := s.client(p)
	if err != nil {
		return "", err
	}
	auth, ok := c.(provider.Authorizer)
	if !ok {
		return "", fmt.Errorf("%s: %w", p, provider.ErrCompanionAppRequired)
	}
	return auth.AuthURL(), nil
}

// CompleteAuth exchanges a one-time code for a reusable credential.
// Storing the credential is the caller's responsibility.
func (s *SleepDataService) CompleteAuth(ctx context.Context, p provider.ID, code string) (*internal.Credential, error) {
	c, err := s.client(p)
	if err != nil {
		return nil, err
	}
	auth, ok := c.(provider.Authorizer)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no code exchange", internal.ErrUnknownProvider, p)
	}
	cred, err := auth.ExchangeCode(ctx, code)
	if err != nil {
		s.logger.Errorf("%s: code exchange failed: %v", p, err)
		return nil, err
	}
	return cred, nil
}

// Normalize runs a raw payload through the provider's normalizer without
// fetching. Used for out-of-band ingest.
func (s *SleepDataService) Normalize(p provider.ID, raw provider.RawPayload) ([]internal.SleepSession, error) {
	c, err := s.client(p)
	if err != nil {
		return nil, err
	}
	return c.Normalize(raw), nil
}

// FetchSleepData validates the credential requirement, dispatches to the
// provider's fetch+normalize pipeline, and returns canonical sessions.
func (s *SleepDataService) FetchSleepData(ctx context.Context, p provider.ID, start, end time.Time, cred *internal.Credential) ([]internal.SleepSession, error) {
	c, err := s.client(p)
	if err != nil {
		return nil, err
	}
	if c.RequiresCredential() && (cred == nil || cred.AccessToken == "") {
		return nil, fmt.Errorf("%w: %s", internal.ErrMissingCredential, p)
	}
	sessions, err := c.FetchSessions(ctx, start, end, cred)
	if err != nil {
		s.logger.Errorf("%s: fetch failed: %v", p, err)
		return nil, err
	}
	s.logger.Debugf("%s: normalized %d sessions", p, len(sessions))
	return sessions, nil
}
