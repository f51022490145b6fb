package endpoints

import (
	"context"
	"errors"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/catalog"
	"github.com/campusfm/songday/internal/http/api"
	"github.com/campusfm/songday/internal/http/api/student/packets"
	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/intake"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/storage"
	"github.com/campusfm/songday/internal/store"
	"github.com/campusfm/songday/internal/votes"
)

// resolveTimeout bounds per-track online URL lookups while listing.
const resolveTimeout = 10 * time.Second

type RequestController struct {
	store   *store.Store
	intake  *intake.Service
	ledger  *votes.Ledger
	catalog *catalog.Client
	cache   storage.Storage
}

func newRequestController(st *store.Store, in *intake.Service, ledger *votes.Ledger,
	cat *catalog.Client, cache storage.Storage) *RequestController {
	return &RequestController{store: st, intake: in, ledger: ledger, catalog: cat, cache: cache}
}

// RequestsModule mounts the public student surface: today's list, submission,
// voting, catalog search, quota stats, announcement and changelog.
func RequestsModule(st *store.Store, in *intake.Service, ledger *votes.Ledger,
	cat *catalog.Client, cache storage.Storage) api.Module {
	ctl := newRequestController(st, in, ledger, cat, cache)
	return api.ModuleFunc(func(c *api.Controller) {
		c.PUBLIC_GET("/requests", ctl.listToday)
		c.PUBLIC_POST("/requests", ctl.submit)
		c.PUBLIC_POST("/requests/:id/vote", ctl.vote)
		c.PUBLIC_POST("/search", ctl.search)
		c.PUBLIC_GET("/stats", ctl.dailyStats)
		c.PUBLIC_GET("/announcement", ctl.announcement)
		c.PUBLIC_GET("/changelog", ctl.changelog)
	})
}

// MapSongs sorts a day's list by votes, highest first, and decorates every
// record with a playback URL: the cached file when present, an online stream
// URL resolved from the catalog otherwise, empty when neither exists.
func MapSongs(ctx context.Context, list []model.SongRequest,
	cache storage.Storage, cat *catalog.Client) []packets.SongResponse {
	sorted := make([]model.SongRequest, len(list))
	copy(sorted, list)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Votes > sorted[j].Votes
	})

	out := make([]packets.SongResponse, len(sorted))
	for i, req := range sorted {
		out[i] = packets.SongResponse{
			ID:          req.ID,
			SongName:    req.SongName,
			ClassName:   req.ClassName,
			StudentName: req.StudentName,
			RequestDate: req.RequestDate,
			Votes:       req.Votes,
			SongID:      req.SongID,
			CoverURL:    req.CoverURL,
			Artists:     req.Artists,
			Album:       req.Album,
			Lyric:       req.Lyric,
			URL:         playbackURL(ctx, req, cache, cat),
		}
	}
	return out
}

func playbackURL(ctx context.Context, req model.SongRequest,
	cache storage.Storage, cat *catalog.Client) string {
	name := catalog.CacheName(req.SongName)
	if cache.Exists(name) {
		return cache.URL(name)
	}
	if req.SongID == "" || cat == nil {
		return ""
	}
	rctx, cancel := context.WithTimeout(ctx, resolveTimeout)
	defer cancel()
	src, err := cat.Resolve(rctx, req.SongID)
	if err != nil {
		log.Error().Err(err).Str("song", req.SongName).Msg("[requests] online URL lookup failed")
		return ""
	}
	return src.URL
}

// GET /requests
func (r *RequestController) listToday(ctx *gin.Context) (any, *api.APIError) {
	today := r.store.ReadDay("")
	return MapSongs(ctx.Request.Context(), today, r.cache, r.catalog), nil
}

// POST /requests
func (r *RequestController) submit(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SubmitSongRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	}

	sub := intake.Submission{
		SongName:    request.SongName,
		ClassName:   request.ClassName,
		StudentName: request.StudentName,
		SongID:      request.SongID,
		CoverURL:    request.CoverURL,
		Artists:     request.Artists,
		Album:       request.Album,
	}
	if request.SongID != "" {
		// Lyric lookup is best effort; a miss never blocks the submission.
		rctx, cancel := context.WithTimeout(ctx.Request.Context(), resolveTimeout)
		if src, err := r.catalog.Resolve(rctx, request.SongID); err == nil {
			sub.Lyric = src.Lyric
		} else {
			log.Warn().Err(err).Str("song_id", request.SongID).Msg("[requests] lyric lookup failed")
		}
		cancel()
	}

	accepted, err := r.intake.Submit(sub)
	if err != nil {
		var rejected *intake.RejectError
		if errors.As(err, &rejected) {
			return nil, &api.APIError{Code: http.StatusUnprocessableEntity, Message: rejected.Message}
		}
		log.Error().Err(err).Msg("[requests] submit failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "could not save the request, try again later"}
	}

	return packets.SubmitResponse{
		Message: "song request submitted",
		Song:    MapSongs(ctx.Request.Context(), []model.SongRequest{*accepted}, r.cache, r.catalog)[0],
	}, nil
}

// POST /requests/:id/vote
func (r *RequestController) vote(ctx *gin.Context) (any, *api.APIError) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "invalid song id"}
	}

	sessionID := middleware.GetSessionID(ctx)
	if sessionID == "" {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "missing voter session"}
	}

	count, err := r.ledger.Vote(ctx.Request.Context(), sessionID, id)
	switch {
	case errors.Is(err, votes.ErrAlreadyVoted):
		return nil, &api.APIError{Code: http.StatusConflict, Message: "you already voted for this song"}
	case errors.Is(err, votes.ErrNotFound):
		return nil, &api.APIError{Code: http.StatusNotFound, Message: "song not found in today's list"}
	case err != nil:
		log.Error().Err(err).Int("id", id).Msg("[requests] vote failed")
		return nil, &api.APIError{Code: http.StatusInternalServerError, Message: "vote failed, try again later"}
	}
	return packets.VoteResponse{Votes: count}, nil
}

// POST /search
func (r *RequestController) search(ctx *gin.Context) (any, *api.APIError) {
	var request packets.SearchRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		return nil, &api.APIError{Code: http.StatusBadRequest, Message: "keyword is required"}
	}

	tracks, err := r.catalog.Search(ctx.Request.Context(), request.Keyword)
	if err != nil {
		if errors.Is(err, catalog.ErrNoResults) {
			return nil, &api.APIError{Code: http.StatusNotFound, Message: "no songs found"}
		}
		log.Error().Err(err).Str("keyword", request.Keyword).Msg("[requests] catalog search failed")
		return nil, &api.APIError{Code: http.StatusBadGateway, Message: "search failed, try again later"}
	}
	return gin.H{"songs": tracks}, nil
}

// GET /stats
func (r *RequestController) dailyStats(ctx *gin.Context) (any, *api.APIError) {
	return packets.StatsResponse{
		Count:     r.intake.Count(),
		Remaining: r.intake.Remaining(),
		Max:       intake.DailyCeiling,
	}, nil
}

// GET /announcement
func (r *RequestController) announcement(ctx *gin.Context) (any, *api.APIError) {
	return r.store.Announcement(), nil
}

// GET /changelog
func (r *RequestController) changelog(ctx *gin.Context) (any, *api.APIError) {
	entries := r.store.Changelog()
	if entries == nil {
		entries = []model.ChangelogEntry{}
	}
	return entries, nil
}
