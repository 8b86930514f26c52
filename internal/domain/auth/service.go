package auth

import "context"

type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
	Logout(ctx context.Context, accessToken string) error
	Me(ctx context.Context, userID string) (UserInfo, error)
	IssueSSEToken(ctx context.Context, userID string) (SSETokenResponse, error)
}
