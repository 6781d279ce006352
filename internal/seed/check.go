package seed

import (
	"context"
	"math"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/givehub/opskit/internal/fixtures"
	"github.com/givehub/opskit/internal/platform"
)

// amountTolerance absorbs float round-tripping through JSON and the database.
const amountTolerance = 0.01

// CheckEntry pairs an expected post with what the server has for it.
type CheckEntry struct {
	Post         fixtures.SeedPost
	ServerID     int64
	ServerAmount float64
	AmountMatch  bool
}

// CheckReport is the outcome of comparing fixture posts against the server.
// Amount mismatches are reported but do not fail the check; missing posts do.
type CheckReport struct {
	Found   []CheckEntry
	Missing []fixtures.SeedPost
	Extra   int
}

func (r CheckReport) OK() bool { return len(r.Missing) == 0 }

// AmountMismatches counts found posts whose amount differs beyond tolerance.
func (r CheckReport) AmountMismatches() int {
	n := 0
	for _, e := range r.Found {
		if !e.AmountMatch {
			n++
		}
	}
	return n
}

type postKey struct {
	userID int64
	title  string
}

// normalizeTitle lowercases and collapses whitespace runs so cosmetic
// differences do not break matching.
func normalizeTitle(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// CheckPosts fetches the server's posts and matches every expected post by
// (author, normalized title). The error covers the fetch failing outright;
// individual mismatches land in the report.
func CheckPosts(ctx context.Context, client *platform.Client, expected []fixtures.SeedPost, log *zap.Logger) (CheckReport, error) {
	server, err := client.ListPosts(ctx)
	if err != nil {
		return CheckReport{}, errors.Wrap(err, "fetch posts")
	}
	log.Info("server posts fetched", zap.Int("count", len(server)))

	index := make(map[postKey]platform.Post, len(server))
	for _, p := range server {
		index[postKey{p.UserID, normalizeTitle(p.Title)}] = p
	}

	var rep CheckReport
	for _, want := range expected {
		got, ok := index[postKey{want.UserID, normalizeTitle(want.Title)}]
		if !ok {
			log.Warn("post not found on server",
				zap.Int64("fixture_id", want.ID), zap.String("title", want.Title))
			rep.Missing = append(rep.Missing, want)
			continue
		}
		match := math.Abs(got.Amount-want.Amount) < amountTolerance
		if match {
			log.Info("post found",
				zap.Int64("fixture_id", want.ID), zap.Int64("server_id", got.ID))
		} else {
			log.Warn("post found but amount differs",
				zap.Int64("fixture_id", want.ID),
				zap.Float64("expected", want.Amount),
				zap.Float64("server", got.Amount))
		}
		rep.Found = append(rep.Found, CheckEntry{
			Post:         want,
			ServerID:     got.ID,
			ServerAmount: got.Amount,
			AmountMatch:  match,
		})
	}
	if extra := len(server) - len(expected); extra > 0 {
		rep.Extra = extra
	}
	return rep, nil
}
