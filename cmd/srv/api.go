package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/campusnex/backend/internal/middleware"
	"github.com/campusnex/backend/migration"
	"github.com/campusnex/backend/pkg/router"
	"github.com/campusnex/backend/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(*cli.Context) error {
	s.ctx = xcontext.WithDB(s.ctx, s.newDatabase())
	if err := migration.AutoMigrate(s.ctx); err != nil {
		return err
	}

	s.loadRedisClient()
	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := xcontext.Configs(s.ctx).ApiServer
	s.server = &http.Server{
		Addr:    cfg.Address(),
		Handler: s.router.Handler(),
	}

	xcontext.Logger(s.ctx).Infof("Starting api server on %s", cfg.Address())
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.AddCloser(middleware.Logger())

	// Public APIs. Authentication is optional, a valid access token only
	// personalizes the result.
	optionalAuthRouter := s.router.Branch()
	optionalAuthRouter.Before(middleware.NewAuthVerifier().WithAccessToken().WithOptional().Middleware())
	{
		router.GET(optionalAuthRouter, "/ping", ping)
		router.GET(optionalAuthRouter, "/getEvents", s.eventDomain.GetList)
		router.GET(optionalAuthRouter, "/getEvent", s.eventDomain.Get)
		router.GET(optionalAuthRouter, "/getLeaderboard", s.statisticDomain.GetLeaderboard)
	}

	// Auth APIs.
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	authRouter.After(middleware.HandleRedirect())
	authRouter.After(middleware.HandleSetCookie())
	{
		router.GET(authRouter, "/oauth2/login", s.authDomain.OAuth2Login)
		router.GET(authRouter, "/oauth2/verify", s.authDomain.OAuth2Verify)
		router.POST(authRouter, "/refresh", s.authDomain.Refresh)
	}

	// These following APIs need authentication with only Access Token.
	onlyTokenAuthRouter := s.router.Branch()
	onlyTokenAuthRouter.Before(middleware.NewAuthVerifier().WithAccessToken().Middleware())
	{
		router.GET(onlyTokenAuthRouter, "/getMe", s.userDomain.GetMe)
		router.POST(onlyTokenAuthRouter, "/updateMe", s.userDomain.UpdateMe)

		router.POST(onlyTokenAuthRouter, "/createEvent", s.eventDomain.Create)
		router.POST(onlyTokenAuthRouter, "/updateEvent", s.eventDomain.Update)
		router.POST(onlyTokenAuthRouter, "/deleteEvent", s.eventDomain.Delete)
		router.POST(onlyTokenAuthRouter, "/rsvpEvent", s.eventDomain.RSVP)

		router.GET(onlyTokenAuthRouter, "/getMyStats", s.statisticDomain.GetMyStats)
		router.GET(onlyTokenAuthRouter, "/getMyActivities", s.statisticDomain.GetMyActivities)
		router.POST(onlyTokenAuthRouter, "/initializeStats", s.statisticDomain.InitializeStats)
	}
}

type pingRequest struct{}

type pingResponse struct {
	Message string `json:"message"`
}

func ping(context.Context, *pingRequest) (*pingResponse, error) {
	return &pingResponse{Message: "pong"}, nil
}
