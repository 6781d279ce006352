package seed

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/fixtures"
	"github.com/givehub/opskit/internal/platform"
)

// UploadAvatars uploads the <user_id>.<ext> image from photoDir for every
// user. Entries without an id, token or photo are skipped, not failed: the
// photo sets are deliberately partial.
func UploadAvatars(ctx context.Context, client *platform.Client, users []fixtures.SeedUser, photoDir string, log *zap.Logger) Stats {
	var st Stats
	for _, u := range users {
		if u.UserID == 0 {
			log.Warn("user entry without user_id skipped")
			st.Skipped++
			continue
		}
		if u.Token == "" {
			log.Warn("user without token skipped", zap.Int64("user_id", u.UserID))
			st.Skipped++
			continue
		}
		path, ok := fixtures.FindImage(photoDir, u.UserID)
		if !ok {
			log.Warn("no photo for user", zap.Int64("user_id", u.UserID))
			st.Skipped++
			continue
		}
		f, err := os.Open(path)
		if err != nil {
			log.Error("open photo failed", zap.String("path", path), zap.Error(err))
			st.Failed++
			continue
		}
		url, err := client.UploadAvatar(ctx, u.Token, platform.Upload{
			Name:        filepath.Base(path),
			ContentType: fixtures.ContentTypeFor(path),
			Reader:      f,
		})
		f.Close()
		if err != nil {
			log.Error("avatar upload failed", zap.Int64("user_id", u.UserID), zap.Error(err))
			st.Failed++
			continue
		}
		log.Info("avatar uploaded", zap.Int64("user_id", u.UserID), zap.String("url", url))
		st.Succeeded++
	}
	return st
}
