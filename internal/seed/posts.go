package seed

import (
	"context"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/fixtures"
	"github.com/givehub/opskit/internal/platform"
)

// CreatePosts submits every fixture post under its author's token. A post
// whose author is missing from users is skipped; a missing picture only means
// the post goes up without media.
func CreatePosts(ctx context.Context, client *platform.Client, users []fixtures.SeedUser, posts []fixtures.SeedPost, pictureDir string, log *zap.Logger) Stats {
	tokens := make(map[int64]string, len(users))
	for _, u := range users {
		if u.UserID != 0 && u.Token != "" {
			tokens[u.UserID] = u.Token
		}
	}

	var st Stats
	for _, p := range posts {
		token, ok := tokens[p.UserID]
		if !ok {
			log.Warn("no token for post author, skipped",
				zap.Int64("post_id", p.ID), zap.Int64("user_id", p.UserID))
			st.Skipped++
			continue
		}

		var media *platform.Upload
		var f *os.File
		if path, ok := fixtures.FindImage(pictureDir, p.ID); ok {
			var err error
			f, err = os.Open(path)
			if err != nil {
				log.Error("open picture failed", zap.String("path", path), zap.Error(err))
				st.Failed++
				continue
			}
			media = &platform.Upload{
				Name:        filepath.Base(path),
				ContentType: fixtures.ContentTypeFor(path),
				Reader:      f,
			}
		} else {
			log.Info("no picture for post, creating without media", zap.Int64("post_id", p.ID))
		}

		created, err := client.CreatePost(ctx, token, platform.PostDraft{
			Title:       p.Title,
			Description: p.Description,
			Amount:      p.Amount,
			Recipient:   p.Recipient,
			Bank:        p.Bank,
			Phone:       p.Phone,
		}, media)
		if f != nil {
			f.Close()
		}
		if err != nil {
			if platform.NotVerified(err) {
				log.Error("author not verified, verification must be approved before posting",
					zap.Int64("post_id", p.ID), zap.Int64("user_id", p.UserID))
			} else {
				log.Error("create post failed", zap.Int64("post_id", p.ID), zap.Error(err))
			}
			st.Failed++
			continue
		}
		log.Info("post created",
			zap.Int64("fixture_id", p.ID), zap.Int64("server_id", created.ID), zap.String("title", p.Title))
		st.Succeeded++
	}
	return st
}
