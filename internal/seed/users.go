package seed

import (
	"context"

	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/fixtures"
	"github.com/givehub/opskit/internal/platform"
)

// RegisterUsers creates an account for every credential and collects the
// resulting sessions in order. Incomplete credentials count as failures so a
// broken auth file cannot produce a quietly shorter users.json.
func RegisterUsers(ctx context.Context, client *platform.Client, creds []fixtures.Credential, log *zap.Logger) ([]fixtures.SeedUser, Stats) {
	var users []fixtures.SeedUser
	var st Stats
	for _, cred := range creds {
		if cred.Phone == "" || cred.Password == "" {
			log.Error("credential missing phone or password", zap.String("phone", cred.Phone))
			st.Failed++
			continue
		}
		s, err := client.Register(ctx, platform.Credentials{
			Phone:     cred.Phone,
			Password:  cred.Password,
			FirstName: cred.FirstName,
			LastName:  cred.LastName,
		})
		if err != nil {
			log.Error("register failed", zap.String("phone", cred.Phone), zap.Error(err))
			st.Failed++
			continue
		}
		log.Info("user registered", zap.Int64("user_id", s.UserID), zap.String("phone", cred.Phone))
		users = append(users, fixtures.SeedUser{UserID: s.UserID, Token: s.Token, Message: s.Message})
		st.Succeeded++
	}
	return users, st
}

// RefreshTokens logs every credential in again and returns a fresh users list
// for users.json.
func RefreshTokens(ctx context.Context, client *platform.Client, creds []fixtures.Credential, log *zap.Logger) ([]fixtures.SeedUser, Stats) {
	var users []fixtures.SeedUser
	var st Stats
	for _, cred := range creds {
		if cred.Phone == "" || cred.Password == "" {
			log.Error("credential missing phone or password", zap.String("phone", cred.Phone))
			st.Failed++
			continue
		}
		s, err := client.Login(ctx, cred.Phone, cred.Password)
		if err != nil {
			log.Error("login failed", zap.String("phone", cred.Phone), zap.Error(err))
			st.Failed++
			continue
		}
		log.Info("token refreshed", zap.Int64("user_id", s.UserID), zap.String("phone", cred.Phone))
		users = append(users, fixtures.SeedUser{UserID: s.UserID, Token: s.Token, Message: "token refreshed"})
		st.Succeeded++
	}
	return users, st
}
