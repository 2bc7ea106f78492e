package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sonder-app/sonder-backend/internal/common"
)

// GoogleProvider fetches profiles from Google's OpenID Connect userinfo
// endpoint.
type GoogleProvider struct {
	endpoint string
	client   *http.Client
}

// NewGoogleProvider constructs a provider against the given userinfo URL.
func NewGoogleProvider(endpoint string) *GoogleProvider {
	return &GoogleProvider{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchUserInfo presents the provider token as a bearer credential to the
// userinfo endpoint. A 401 from the provider maps to ErrTokenRejected; an
// unverified email fails with common.ErrEmailNotVerified, since an unverified
// address must never be used to create or match an account.
func (p *GoogleProvider) FetchUserInfo(ctx context.Context, providerToken string) (*UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("building userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+providerToken)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling userinfo endpoint: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, ErrTokenRejected
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("userinfo endpoint returned status %d", resp.StatusCode)
	}

	info := &UserInfo{}
	if err := json.NewDecoder(resp.Body).Decode(info); err != nil {
		return nil, fmt.Errorf("decoding userinfo response: %w", err)
	}

	if !info.EmailVerified {
		return nil, common.ErrEmailNotVerified
	}

	return info, nil
}
